package migrate

import (
	pathutils "github.com/temirov/sessionmigrate/internal/utils/path"
)

const (
	defaultBaseDirectoryConstant            = "frontend/assets/js"
	configurationKeySeparatorConstant       = "."
	baseDirectoryConfigurationKeyConstant   = "base_directory"
	filesConfigurationKeyConstant           = "files"
	dryRunConfigurationKeyConstant          = "dry_run"
	continueOnErrorConfigurationKeyConstant = "continue_on_error"
	baseDirectoryFieldNameConstant          = "base_directory"
	filesFieldNameConstant                  = "files"
	baseDirectoryRequiredMessageConstant    = "base directory must not be empty"
	filesRequiredMessageConstant            = "at least one file name is required"
)

var defaultMigrationFiles = []string{
	"billings.js",
	"chatbot-ai.js",
	"device-settings.js",
	"flow-builder.js",
	"flow-manager.js",
	"packages.js",
	"profile.js",
	"set-stage.js",
	"whatsapp-bot.js",
}

var migrationHomeExpander = pathutils.NewHomeExpander()

// CommandConfiguration captures persisted configuration for the session migration.
type CommandConfiguration struct {
	BaseDirectory   string   `mapstructure:"base_directory"`
	Files           []string `mapstructure:"files"`
	DryRun          bool     `mapstructure:"dry_run"`
	ContinueOnError bool     `mapstructure:"continue_on_error"`
}

// DefaultCommandConfiguration returns the built-in migration targets.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BaseDirectory:   defaultBaseDirectoryConstant,
		Files:           append([]string(nil), defaultMigrationFiles...),
		DryRun:          false,
		ContinueOnError: false,
	}
}

// DefaultConfigurationValues returns the defaults keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + baseDirectoryConfigurationKeyConstant:   defaults.BaseDirectory,
		prefix + configurationKeySeparatorConstant + filesConfigurationKeyConstant:           defaults.Files,
		prefix + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:          defaults.DryRun,
		prefix + configurationKeySeparatorConstant + continueOnErrorConfigurationKeyConstant: defaults.ContinueOnError,
	}
}

// Sanitize trims configured values, expands the home directory, and removes empty file names.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.BaseDirectory = pathutils.SanitizeDirectory(migrationHomeExpander, configuration.BaseDirectory)
	sanitized.Files = pathutils.SanitizeNames(configuration.Files)
	return sanitized
}

// Validate reports configuration that cannot be run.
func (configuration CommandConfiguration) Validate() error {
	if len(configuration.BaseDirectory) == 0 {
		return InvalidConfigurationError{FieldName: baseDirectoryFieldNameConstant, Message: baseDirectoryRequiredMessageConstant}
	}
	if len(configuration.Files) == 0 {
		return InvalidConfigurationError{FieldName: filesFieldNameConstant, Message: filesRequiredMessageConstant}
	}
	return nil
}

// RunOptions converts the configuration into service run options.
func (configuration CommandConfiguration) RunOptions() RunOptions {
	return RunOptions{
		BaseDirectory:   configuration.BaseDirectory,
		Files:           append([]string(nil), configuration.Files...),
		DryRun:          configuration.DryRun,
		ContinueOnError: configuration.ContinueOnError,
	}
}
