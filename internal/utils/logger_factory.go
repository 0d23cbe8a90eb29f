package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// SupportedLogLevels lists accepted log levels in increasing severity.
func SupportedLogLevels() []string {
	return []string{logLevelDebugStringConstant, logLevelInfoStringConstant, logLevelWarnStringConstant, logLevelErrorStringConstant}
}

// SupportedLogFormats lists accepted log formats.
func SupportedLogFormats() []string {
	return []string{logFormatStructuredStringConstant, logFormatConsoleStringConstant}
}

// LoggerFactory builds zap.Logger instances writing to a fixed diagnostic sink.
type LoggerFactory struct {
	outputWriter io.Writer
}

// NewLoggerFactory constructs a logger factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithWriter(os.Stderr)
}

// NewLoggerFactoryWithWriter constructs a logger factory writing to the provided sink.
func NewLoggerFactoryWithWriter(outputWriter io.Writer) *LoggerFactory {
	if outputWriter == nil {
		outputWriter = os.Stderr
	}
	return &LoggerFactory{outputWriter: outputWriter}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
// Level and format names are matched case-insensitively.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(normalizeName(string(requestedLogLevel)))]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch LogFormat(normalizeName(string(requestedLogFormat))) {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(encoderConfiguration)
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(factory.outputWriter), zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(factory.outputWriter))), nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
