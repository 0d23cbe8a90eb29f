package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	whitespaceExpressionConstant         = `\s+`
	optionalWhitespaceExpressionConstant = `\s*`
	wordBoundaryExpressionConstant       = `\b`
	quotedAlternativesTemplateConstant   = `(?:'%s'|"%s")`
	emptyPatternMessageConstant          = "pattern has no elements"
	emptyIdentifierMessageConstant       = "identifier element requires a name"
	compilePatternErrorTemplateConstant  = "unable to compile pattern %q: %w"
	unsupportedElementTemplateConstant   = "unsupported element kind %q"
)

var (
	errEmptyPattern    = errors.New(emptyPatternMessageConstant)
	errEmptyIdentifier = errors.New(emptyIdentifierMessageConstant)
)

// ElementKind enumerates the grammar productions a Pattern is built from.
type ElementKind string

// Supported element kinds.
const (
	ElementLiteral            ElementKind = "literal"
	ElementIdentifier         ElementKind = "identifier"
	ElementQuoted             ElementKind = "quoted"
	ElementWhitespace         ElementKind = "whitespace"
	ElementOptionalWhitespace ElementKind = "optional_whitespace"
)

// Element is a single grammar production.
type Element struct {
	Kind  ElementKind
	Value string
}

// Literal matches text exactly.
func Literal(text string) Element {
	return Element{Kind: ElementLiteral, Value: text}
}

// Identifier matches name as a whole word, so it never matches inside a longer identifier.
func Identifier(name string) Element {
	return Element{Kind: ElementIdentifier, Value: name}
}

// Quoted matches a string literal holding value in single or double quotes.
func Quoted(value string) Element {
	return Element{Kind: ElementQuoted, Value: value}
}

// Whitespace matches one or more whitespace characters, newlines included.
func Whitespace() Element {
	return Element{Kind: ElementWhitespace}
}

// OptionalWhitespace matches zero or more whitespace characters.
func OptionalWhitespace() Element {
	return Element{Kind: ElementOptionalWhitespace}
}

func (element Element) expression() (string, error) {
	switch element.Kind {
	case ElementLiteral:
		return regexp.QuoteMeta(element.Value), nil
	case ElementIdentifier:
		if len(element.Value) == 0 {
			return "", errEmptyIdentifier
		}
		return wordBoundaryExpressionConstant + regexp.QuoteMeta(element.Value) + wordBoundaryExpressionConstant, nil
	case ElementQuoted:
		quotedValue := regexp.QuoteMeta(element.Value)
		return fmt.Sprintf(quotedAlternativesTemplateConstant, quotedValue, quotedValue), nil
	case ElementWhitespace:
		return whitespaceExpressionConstant, nil
	case ElementOptionalWhitespace:
		return optionalWhitespaceExpressionConstant, nil
	default:
		return "", fmt.Errorf(unsupportedElementTemplateConstant, element.Kind)
	}
}

// Pattern is an ordered sequence of grammar elements.
type Pattern struct {
	elements []Element
}

// Sequence builds a pattern from the provided elements in order.
func Sequence(elements ...Element) Pattern {
	return Pattern{}.Then(elements...)
}

// Then returns a copy of the pattern with elements appended verbatim.
func (pattern Pattern) Then(elements ...Element) Pattern {
	combined := make([]Element, 0, len(pattern.elements)+len(elements))
	combined = append(combined, pattern.elements...)
	combined = append(combined, elements...)
	return Pattern{elements: combined}
}

// Statement returns a copy of the pattern with the tokens appended and optional
// whitespace allowed between each pair of adjacent tokens.
func (pattern Pattern) Statement(tokens ...Element) Pattern {
	separated := make([]Element, 0, len(tokens)*2)
	for tokenIndex, token := range tokens {
		if tokenIndex > 0 {
			separated = append(separated, OptionalWhitespace())
		}
		separated = append(separated, token)
	}
	return pattern.Then(separated...)
}

// Elements returns a copy of the pattern elements.
func (pattern Pattern) Elements() []Element {
	return append([]Element(nil), pattern.elements...)
}

// Expression renders the regular expression source for the pattern.
func (pattern Pattern) Expression() (string, error) {
	if len(pattern.elements) == 0 {
		return "", errEmptyPattern
	}

	var builder strings.Builder
	for _, element := range pattern.elements {
		elementExpression, expressionError := element.expression()
		if expressionError != nil {
			return "", expressionError
		}
		builder.WriteString(elementExpression)
	}
	return builder.String(), nil
}

// Compile converts the pattern into a regular expression.
func (pattern Pattern) Compile() (*regexp.Regexp, error) {
	expression, expressionError := pattern.Expression()
	if expressionError != nil {
		return nil, expressionError
	}

	compiled, compileError := regexp.Compile(expression)
	if compileError != nil {
		return nil, fmt.Errorf(compilePatternErrorTemplateConstant, expression, compileError)
	}
	return compiled, nil
}

// MustCompile is like Compile but panics when the pattern is invalid.
func (pattern Pattern) MustCompile() *regexp.Regexp {
	compiled, compileError := pattern.Compile()
	if compileError != nil {
		panic(compileError)
	}
	return compiled
}

// String renders the expression, or an empty string for invalid patterns.
func (pattern Pattern) String() string {
	expression, expressionError := pattern.Expression()
	if expressionError != nil {
		return ""
	}
	return expression
}
