package migrate

import (
	"fmt"
	"io"
	"os"
)

const (
	fixedLineTemplateConstant      = "✓ Fixed %s\n"
	unchangedLineTemplateConstant  = "- No changes needed in %s\n"
	notFoundLineTemplateConstant   = "✗ File not found: %s\n"
	previewLineTemplateConstant    = "~ Would fix %s\n"
	fixedSummaryTemplateConstant   = "\nFixed %d files\n"
	previewSummaryTemplateConstant = "\nWould fix %d files\n"
	newlineCharacterConstant       = '\n'
)

// Reporter emits the user-facing migration lines.
type Reporter interface {
	ReportFixed(filePath string)
	ReportUnchanged(filePath string)
	ReportNotFound(filePath string)
	ReportPreview(filePath string, diff string)
	ReportSummary(fixedCount int, dryRun bool)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
// A nil writer falls back to standard output.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer}
}

func (reporter writerReporter) ReportFixed(filePath string) {
	reporter.printf(fixedLineTemplateConstant, filePath)
}

func (reporter writerReporter) ReportUnchanged(filePath string) {
	reporter.printf(unchangedLineTemplateConstant, filePath)
}

func (reporter writerReporter) ReportNotFound(filePath string) {
	reporter.printf(notFoundLineTemplateConstant, filePath)
}

func (reporter writerReporter) ReportPreview(filePath string, diff string) {
	reporter.printf(previewLineTemplateConstant, filePath)
	if len(diff) == 0 {
		return
	}
	reporter.printf("%s", diff)
	if diff[len(diff)-1] != newlineCharacterConstant {
		reporter.printf("\n")
	}
}

func (reporter writerReporter) ReportSummary(fixedCount int, dryRun bool) {
	if dryRun {
		reporter.printf(previewSummaryTemplateConstant, fixedCount)
		return
	}
	reporter.printf(fixedSummaryTemplateConstant, fixedCount)
}

func (reporter writerReporter) printf(format string, arguments ...any) {
	fmt.Fprintf(reporter.writer, format, arguments...)
}
