package migrate

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	diffContextLinesConstant        = 3
	diffOriginalPrefixConstant      = "a/"
	diffUpdatedPrefixConstant       = "b/"
	diffRenderErrorTemplateConstant = "unable to render diff for %s: %w"
)

// RenderUnifiedDiff renders the change between original and updated as a unified diff.
func RenderUnifiedDiff(filePath string, original string, updated string) (string, error) {
	unifiedDiff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: diffOriginalPrefixConstant + filePath,
		ToFile:   diffUpdatedPrefixConstant + filePath,
		Context:  diffContextLinesConstant,
	}

	renderedDiff, renderError := difflib.GetUnifiedDiffString(unifiedDiff)
	if renderError != nil {
		return "", fmt.Errorf(diffRenderErrorTemplateConstant, filePath, renderError)
	}
	return renderedDiff, nil
}
