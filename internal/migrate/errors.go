package migrate

import (
	"errors"
	"fmt"
)

const (
	invalidUTF8MessageConstant                = "content is not valid UTF-8"
	fileOperationErrorTemplateConstant        = "unable to %s %s: %v"
	invalidConfigurationErrorTemplateConstant = "invalid migration configuration: %s: %s"
)

// ErrInvalidUTF8 reports file content that cannot be decoded as UTF-8.
var ErrInvalidUTF8 = errors.New(invalidUTF8MessageConstant)

// FileOperation names the filesystem step that failed.
type FileOperation string

// Supported file operations.
const (
	FileOperationStat   FileOperation = "stat"
	FileOperationRead   FileOperation = "read"
	FileOperationDecode FileOperation = "decode"
	FileOperationWrite  FileOperation = "write"
)

// FileOperationError describes a failed read, decode, or write of an existing file.
type FileOperationError struct {
	Operation FileOperation
	Path      string
	Cause     error
}

// Error describes the failure.
func (operationError FileOperationError) Error() string {
	return fmt.Sprintf(fileOperationErrorTemplateConstant, operationError.Operation, operationError.Path, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError FileOperationError) Unwrap() error {
	return operationError.Cause
}

func newFileOperationError(operation FileOperation, filePath string, cause error) error {
	return FileOperationError{Operation: operation, Path: filePath, Cause: cause}
}

// InvalidConfigurationError describes a migration configuration that cannot be run.
type InvalidConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid field.
func (configurationError InvalidConfigurationError) Error() string {
	return fmt.Sprintf(invalidConfigurationErrorTemplateConstant, configurationError.FieldName, configurationError.Message)
}
