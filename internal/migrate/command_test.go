package migrate_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sessionmigrate/internal/migrate"
)

type recordingExecutor struct {
	options []migrate.RunOptions
}

func (executor *recordingExecutor) Run(_ context.Context, options migrate.RunOptions) (migrate.Summary, error) {
	executor.options = append(executor.options, options)
	return migrate.Summary{}, nil
}

func TestCommandBuilderAppliesFlagOverrides(testInstance *testing.T) {
	baseConfiguration := migrate.CommandConfiguration{BaseDirectory: "frontend/assets/js", Files: []string{"billings.js"}}
	continuingConfiguration := baseConfiguration
	continuingConfiguration.ContinueOnError = true

	testCases := []struct {
		name            string
		configuration   migrate.CommandConfiguration
		arguments       []string
		expectedOptions migrate.RunOptions
	}{
		{
			name:          "configuration_values",
			configuration: continuingConfiguration,
			arguments:     []string{},
			expectedOptions: migrate.RunOptions{
				BaseDirectory:   "frontend/assets/js",
				Files:           []string{"billings.js"},
				ContinueOnError: true,
			},
		},
		{
			name:          "directory_flag",
			configuration: baseConfiguration,
			arguments:     []string{"--directory", " web/js/ "},
			expectedOptions: migrate.RunOptions{
				BaseDirectory: "web/js",
				Files:         []string{"billings.js"},
			},
		},
		{
			name:          "bare_toggles",
			configuration: baseConfiguration,
			arguments:     []string{"--dry-run", "--continue-on-error"},
			expectedOptions: migrate.RunOptions{
				BaseDirectory:   "frontend/assets/js",
				Files:           []string{"billings.js"},
				DryRun:          true,
				ContinueOnError: true,
			},
		},
		{
			name:          "explicit_toggle_values",
			configuration: continuingConfiguration,
			arguments:     []string{"--dry-run=yes", "--continue-on-error=no"},
			expectedOptions: migrate.RunOptions{
				BaseDirectory: "frontend/assets/js",
				Files:         []string{"billings.js"},
				DryRun:        true,
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingExecutor{}
			builder := migrate.CommandBuilder{
				ConfigurationProvider: func() migrate.CommandConfiguration { return testCase.configuration },
				FileSystem:            afero.NewMemMapFs(),
				ServiceProvider: func(migrate.ServiceDependencies) (migrate.Executor, error) {
					return executor, nil
				},
			}

			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)
			command.SetArgs(testCase.arguments)
			command.SetOut(&bytes.Buffer{})

			require.NoError(testInstance, command.ExecuteContext(context.Background()))
			require.Equal(testInstance, []migrate.RunOptions{testCase.expectedOptions}, executor.options)
		})
	}
}

func TestCommandBuilderRewritesFiles(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	seedFiles(testInstance, fileSystem, map[string]string{
		"billings.js": guardedLookupConstant,
		"profile.js":  bareLookupConstant,
	})

	builder := migrate.CommandBuilder{
		ConfigurationProvider: func() migrate.CommandConfiguration {
			return migrate.CommandConfiguration{
				BaseDirectory: testBaseDirectoryConstant,
				Files:         []string{"billings.js", "profile.js", "missing.js"},
			}
		},
		FileSystem: fileSystem,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetArgs([]string{})

	require.NoError(testInstance, command.ExecuteContext(context.Background()))
	require.Equal(testInstance,
		"✓ Fixed "+filepath.Join(testBaseDirectoryConstant, "billings.js")+"\n"+
			"✓ Fixed "+filepath.Join(testBaseDirectoryConstant, "profile.js")+"\n"+
			"✗ File not found: "+filepath.Join(testBaseDirectoryConstant, "missing.js")+"\n"+
			"\nFixed 2 files\n",
		output.String())
	require.Equal(testInstance, guardedSessionConstant, readSeededFile(testInstance, fileSystem, "billings.js"))
	require.Equal(testInstance, bareSessionConstant, readSeededFile(testInstance, fileSystem, "profile.js"))
}

func TestCommandBuilderRejectsInvalidInvocations(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		configuration migrate.CommandConfiguration
	}{
		{
			name:          "positional_arguments",
			arguments:     []string{"billings.js"},
			configuration: migrate.DefaultCommandConfiguration(),
		},
		{
			name:          "unknown_toggle_value",
			arguments:     []string{"--dry-run=maybe"},
			configuration: migrate.DefaultCommandConfiguration(),
		},
		{
			name:          "empty_file_list",
			arguments:     []string{},
			configuration: migrate.CommandConfiguration{BaseDirectory: "frontend/assets/js"},
		},
		{
			name:          "blank_directory_flag",
			arguments:     []string{"--directory", "  "},
			configuration: migrate.DefaultCommandConfiguration(),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingExecutor{}
			builder := migrate.CommandBuilder{
				ConfigurationProvider: func() migrate.CommandConfiguration { return testCase.configuration },
				FileSystem:            afero.NewMemMapFs(),
				ServiceProvider: func(migrate.ServiceDependencies) (migrate.Executor, error) {
					return executor, nil
				},
			}

			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)
			command.SetArgs(testCase.arguments)
			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})

			require.Error(testInstance, command.ExecuteContext(context.Background()))
			require.Empty(testInstance, executor.options)
		})
	}
}

func TestCommandBuilderWrapsMigrationFailure(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	seedFiles(testInstance, fileSystem, map[string]string{"billings.js": invalidUTF8Content})

	builder := migrate.CommandBuilder{
		ConfigurationProvider: func() migrate.CommandConfiguration {
			return migrate.CommandConfiguration{BaseDirectory: testBaseDirectoryConstant, Files: []string{"billings.js"}}
		},
		FileSystem: fileSystem,
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{})

	executionError := command.ExecuteContext(context.Background())
	require.ErrorIs(testInstance, executionError, migrate.ErrInvalidUTF8)
	require.ErrorContains(testInstance, executionError, "session migration failed")
}
