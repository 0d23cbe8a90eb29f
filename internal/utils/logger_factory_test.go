package utils_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sessionmigrate/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactoryCaseMixedCaseConstant         = "mixed_case_names"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatConsole,
			expectStructuredLog: false,
		},
		{
			name:                testLoggerFactoryCaseMixedCaseConstant,
			requestedLogLevel:   utils.LogLevel(" INFO "),
			requestedLogFormat:  utils.LogFormat("Structured"),
			expectStructuredLog: true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			loggerFactory := utils.NewLoggerFactoryWithWriter(outputBuffer)

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			logger.Info(testLogMessageConstant)

			trimmedOutput := bytes.TrimSpace(outputBuffer.Bytes())
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}

func TestLoggerFactoryHonorsLevel(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactoryWithWriter(outputBuffer).CreateLogger(utils.LogLevelWarn, utils.LogFormatStructured)
	require.NoError(testInstance, creationError)

	logger.Info("suppressed")
	logger.Warn("emitted")

	require.False(testInstance, strings.Contains(outputBuffer.String(), "suppressed"))
	require.Contains(testInstance, outputBuffer.String(), "emitted")
}
