package migrate

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sessionmigrate/internal/utils"
	"github.com/temirov/sessionmigrate/internal/utils/flags"
)

const (
	commandUseConstant                    = "session-migrate"
	commandShortDescriptionConstant       = "Replace local-storage auth tokens with Supabase session tokens"
	commandLongDescriptionConstant        = "session-migrate rewrites localStorage.getItem('auth_token') lookups in the configured front-end scripts so they read the access token from window.supabase.auth.getSession(). Files are written only when their content changes."
	directoryFlagNameConstant             = "directory"
	directoryFlagUsageConstant            = "Directory containing the scripts to migrate"
	migrationFailedErrorTemplateConstant  = "session migration failed: %w"
	serviceCreationErrorTemplateConstant  = "unable to construct migration service: %w"
	flagReadErrorTemplateConstant         = "unable to read --%s: %w"
	logMessageConfigurationSourceConstant = "Migration configuration resolved"
	logFieldConfigFileConstant            = "config_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ServiceProvider constructs a migration executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (Executor, error)

// CommandBuilder assembles the session-migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            afero.Fs
	ServiceProvider       ServiceProvider
}

// Build constructs the session-migrate command. It accepts no positional arguments.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	flags.AddToggleFlag(command.Flags(), nil, flags.DryRunFlagName, false, flags.DryRunFlagUsage)
	flags.AddToggleFlag(command.Flags(), nil, flags.ContinueOnErrorFlagName, false, flags.ContinueOnErrorFlagUsage)
	command.Flags().String(directoryFlagNameConstant, "", directoryFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	logger.Debug(
		logMessageConfigurationSourceConstant,
		zap.String(logFieldConfigFileConstant, configurationFilePath),
		zap.String(logFieldBaseDirectoryConstant, configuration.BaseDirectory),
		zap.Strings(filesFieldNameConstant, configuration.Files),
	)

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:     logger,
		FileSystem: builder.resolveFileSystem(),
		Reporter:   NewWriterReporter(command.OutOrStdout()),
		Rules:      AuthTokenRules(),
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	if _, runError := service.Run(command.Context(), configuration.RunOptions()); runError != nil {
		return fmt.Errorf(migrationFailedErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command != nil {
		commandFlags := command.Flags()
		if commandFlags.Changed(directoryFlagNameConstant) {
			directory, flagError := commandFlags.GetString(directoryFlagNameConstant)
			if flagError != nil {
				return CommandConfiguration{}, fmt.Errorf(flagReadErrorTemplateConstant, directoryFlagNameConstant, flagError)
			}
			configuration.BaseDirectory = strings.TrimSpace(directory)
		}
		if commandFlags.Changed(flags.DryRunFlagName) {
			dryRun, flagError := commandFlags.GetBool(flags.DryRunFlagName)
			if flagError != nil {
				return CommandConfiguration{}, fmt.Errorf(flagReadErrorTemplateConstant, flags.DryRunFlagName, flagError)
			}
			configuration.DryRun = dryRun
		}
		if commandFlags.Changed(flags.ContinueOnErrorFlagName) {
			continueOnError, flagError := commandFlags.GetBool(flags.ContinueOnErrorFlagName)
			if flagError != nil {
				return CommandConfiguration{}, fmt.Errorf(flagReadErrorTemplateConstant, flags.ContinueOnErrorFlagName, flagError)
			}
			configuration.ContinueOnError = continueOnError
		}
	}

	sanitized := configuration.Sanitize()
	if validationError := sanitized.Validate(); validationError != nil {
		return CommandConfiguration{}, validationError
	}
	return sanitized, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return afero.NewOsFs()
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (Executor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}
