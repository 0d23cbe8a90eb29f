package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/sessionmigrate/internal/migrate"
	"github.com/temirov/sessionmigrate/internal/utils"
	"github.com/temirov/sessionmigrate/internal/utils/flags"
)

const (
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level."
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format."
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	migrationConfigurationKeyConstant          = "migration"
	environmentPrefixConstant                  = "SESSIONMIGRATE"
	configurationNameConstant                  = "sessionmigrate"
	configurationTypeConstant                  = "yaml"
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	migrationCommandBuildErrorTemplateConstant = "unable to build migration command: %w"
	defaultConfigurationSearchPathConstant     = "."
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Migration migrate.CommandConfiguration   `mapstructure:"migration"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	migrationBuilder := migrate.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() migrate.CommandConfiguration {
			return application.configuration.Migration
		},
	}
	rootCommand, buildError := migrationBuilder.Build()
	if buildError != nil {
		return nil, fmt.Errorf(migrationCommandBuildErrorTemplateConstant, buildError)
	}

	rootCommand.PersistentPreRunE = func(command *cobra.Command, _ []string) error {
		return application.initializeConfiguration(command)
	}
	rootCommand.SetContext(context.Background())

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flags.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagUsageConstant),
	)
	persistentFlags.StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flags.FormatChoiceUsage(string(utils.LogFormatStructured), utils.SupportedLogFormats(), logFormatFlagUsageConstant),
	)

	application.rootCommand = rootCommand
	return application, nil
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return errors.Join(executionError, fmt.Errorf(loggerSyncErrorTemplateConstant, syncError))
	}
	return executionError
}

// Execute builds a fresh application instance and runs it.
func Execute() error {
	application, applicationError := NewApplication()
	if applicationError != nil {
		return applicationError
	}
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range migrate.DefaultConfigurationValues(migrationConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
