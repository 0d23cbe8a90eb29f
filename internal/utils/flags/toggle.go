// Package flags provides helpers for binding migration flags to Cobra commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the dry-run flag purpose.
	DryRunFlagUsage = "Preview rewrites as unified diffs without writing files"
	// ContinueOnErrorFlagName exposes the continue-on-error flag name.
	ContinueOnErrorFlagName = "continue-on-error"
	// ContinueOnErrorFlagUsage describes the continue-on-error flag purpose.
	ContinueOnErrorFlagUsage = "Keep processing remaining files after a read or write failure"

	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleTruePlaceholder     = "<YES|no>"
	toggleFalsePlaceholder    = "<yes|NO>"
	toggleTypeName            = "bool"
	usagePlaceholderTemplate  = "`%s`"
	usageDescribedTemplate    = "`%s` %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"yes":   true,
	"on":    true,
	"1":     true,
	"t":     true,
	"y":     true,
	"false": false,
	"no":    false,
	"off":   false,
	"0":     false,
	"f":     false,
	"n":     false,
}

// AddToggleFlag registers a boolean flag accepting yes/no style values via --name=value.
// A bare --name sets the flag to true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleValue(defaultValue, target), name, formatUsage(togglePlaceholder(defaultValue), usage))
	if flag := flagSet.Lookup(name); flag != nil {
		flag.NoOptDefVal = toggleTrueCanonicalValue
	}
}

// FormatChoiceUsage builds a usage string listing the choices with the default capitalized.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayed := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if strings.ToLower(trimmedChoice) == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		displayed = append(displayed, trimmedChoice)
	}
	return formatUsage("<"+strings.Join(displayed, "|")+">", description)
}

func togglePlaceholder(defaultValue bool) string {
	if defaultValue {
		return toggleTruePlaceholder
	}
	return toggleFalsePlaceholder
}

func formatUsage(placeholder string, description string) string {
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(usagePlaceholderTemplate, placeholder)
	}
	return fmt.Sprintf(usageDescribedTemplate, placeholder, trimmedDescription)
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{currentValue: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueCanonicalValue
	}

	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeName
}
