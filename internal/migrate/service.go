package migrate

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	fileSystemMissingMessageConstant = "file system not configured"
	directoryNotFileMessageConstant  = "path is a directory"
	logMessageFileNotFoundConstant   = "Migration target not found"
	logMessageFileUnchangedConstant  = "No rewrites required"
	logMessageFileRewrittenConstant  = "Rewrote migration target"
	logMessageFilePreviewedConstant  = "Previewed migration target"
	logMessageFileFailedConstant     = "Migration target failed"
	logMessageRunStartedConstant     = "Session token migration started"
	logMessageRunCompletedConstant   = "Session token migration completed"
	logMessageRunHaltedConstant      = "Session token migration halted"
	logFieldFilePathConstant         = "file"
	logFieldRuleNameConstant         = "rule"
	logFieldRuleMatchesConstant      = "matches"
	logFieldBaseDirectoryConstant    = "base_directory"
	logFieldFileCountConstant        = "file_count"
	logFieldRulesConstant            = "rules"
	logFieldDryRunConstant           = "dry_run"
	logFieldContinueOnErrorConstant  = "continue_on_error"
	logFieldFixedCountConstant       = "fixed_count"
	logFieldUnchangedCountConstant   = "unchanged_count"
	logFieldNotFoundCountConstant    = "not_found_count"
	logFieldFailedCountConstant      = "failed_count"
	logMessageRuleAppliedConstant    = "Rewrite rule applied"
	rewriteOpenFlagsConstant         = os.O_WRONLY | os.O_TRUNC
)

var errFileSystemMissing = errors.New(fileSystemMissingMessageConstant)

// FileOutcome enumerates the result of processing one migration target.
type FileOutcome string

// Supported file outcomes.
const (
	FileOutcomeUnchanged FileOutcome = "unchanged"
	FileOutcomeRewritten FileOutcome = "rewritten"
	FileOutcomeNotFound  FileOutcome = "not_found"
)

// FileResult captures the outcome for a single migration target.
type FileResult struct {
	Path         string
	Outcome      FileOutcome
	Applications []RuleApplication
	// Written is false for rewritten files in dry-run mode.
	Written bool
}

// ProcessOptions tunes ProcessFile.
type ProcessOptions struct {
	DryRun bool
}

// RunOptions configures a migration run.
type RunOptions struct {
	BaseDirectory   string
	Files           []string
	DryRun          bool
	ContinueOnError bool
}

// Summary aggregates the results of a migration run.
type Summary struct {
	Results        []FileResult
	FixedCount     int
	UnchangedCount int
	NotFoundCount  int
	FailedCount    int
}

func (summary *Summary) record(result FileResult) {
	summary.Results = append(summary.Results, result)
	switch result.Outcome {
	case FileOutcomeRewritten:
		summary.FixedCount++
	case FileOutcomeUnchanged:
		summary.UnchangedCount++
	case FileOutcomeNotFound:
		summary.NotFoundCount++
	}
}

// ServiceDependencies describes collaborators for the migration service.
type ServiceDependencies struct {
	Logger     *zap.Logger
	FileSystem afero.Fs
	Reporter   Reporter
	Rules      RuleSet
}

// Executor runs a migration over a list of files.
type Executor interface {
	Run(executionContext context.Context, options RunOptions) (Summary, error)
}

// Service rewrites local-storage token lookups into session lookups.
type Service struct {
	logger     *zap.Logger
	fileSystem afero.Fs
	reporter   Reporter
	rules      RuleSet
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, errFileSystemMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = NewWriterReporter(os.Stdout)
	}

	rules := dependencies.Rules
	if len(rules) == 0 {
		rules = AuthTokenRules()
	}

	return &Service{
		logger:     logger,
		fileSystem: dependencies.FileSystem,
		reporter:   reporter,
		rules:      rules,
	}, nil
}

// Run processes every file in order, stopping at the first failure unless
// ContinueOnError is set. The summary line is printed only when the run
// reaches the end of the list.
func (service *Service) Run(executionContext context.Context, options RunOptions) (Summary, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	summary := Summary{Results: make([]FileResult, 0, len(options.Files))}

	service.logger.Debug(
		logMessageRunStartedConstant,
		zap.String(logFieldBaseDirectoryConstant, options.BaseDirectory),
		zap.Int(logFieldFileCountConstant, len(options.Files)),
		zap.Strings(logFieldRulesConstant, service.rules.Names()),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
		zap.Bool(logFieldContinueOnErrorConstant, options.ContinueOnError),
	)

	var failures []error
	for _, fileName := range options.Files {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		filePath := filepath.Join(options.BaseDirectory, fileName)
		result, processError := service.ProcessFile(executionContext, filePath, ProcessOptions{DryRun: options.DryRun})
		if processError != nil {
			service.logger.Error(logMessageFileFailedConstant, zap.String(logFieldFilePathConstant, filePath), zap.Error(processError))
			if !options.ContinueOnError {
				service.logger.Warn(logMessageRunHaltedConstant, zap.String(logFieldFilePathConstant, filePath))
				return summary, processError
			}
			summary.FailedCount++
			failures = append(failures, processError)
			continue
		}

		summary.record(result)
	}

	service.reporter.ReportSummary(summary.FixedCount, options.DryRun)

	service.logger.Debug(
		logMessageRunCompletedConstant,
		zap.Int(logFieldFixedCountConstant, summary.FixedCount),
		zap.Int(logFieldUnchangedCountConstant, summary.UnchangedCount),
		zap.Int(logFieldNotFoundCountConstant, summary.NotFoundCount),
		zap.Int(logFieldFailedCountConstant, summary.FailedCount),
	)

	return summary, errors.Join(failures...)
}

// ProcessFile applies the rule set to a single file and writes it back only
// when the content changed.
func (service *Service) ProcessFile(_ context.Context, filePath string, options ProcessOptions) (FileResult, error) {
	fileInfo, statError := service.fileSystem.Stat(filePath)
	if statError != nil {
		if isMissingPath(statError) {
			service.logger.Debug(logMessageFileNotFoundConstant, zap.String(logFieldFilePathConstant, filePath))
			service.reporter.ReportNotFound(filePath)
			return FileResult{Path: filePath, Outcome: FileOutcomeNotFound}, nil
		}
		return FileResult{}, newFileOperationError(FileOperationStat, filePath, statError)
	}
	if fileInfo.IsDir() {
		return FileResult{}, newFileOperationError(FileOperationRead, filePath, errors.New(directoryNotFileMessageConstant))
	}

	originalContent, readError := service.readText(filePath)
	if readError != nil {
		return FileResult{}, readError
	}

	outcome := service.rules.Apply(originalContent)
	result := FileResult{Path: filePath, Applications: outcome.Applications}

	if outcome.Content == originalContent {
		service.logger.Debug(logMessageFileUnchangedConstant, zap.String(logFieldFilePathConstant, filePath))
		service.reporter.ReportUnchanged(filePath)
		result.Outcome = FileOutcomeUnchanged
		return result, nil
	}

	service.logRuleApplications(filePath, outcome.Applications)
	result.Outcome = FileOutcomeRewritten

	if options.DryRun {
		renderedDiff, diffError := RenderUnifiedDiff(filePath, originalContent, outcome.Content)
		if diffError != nil {
			return FileResult{}, diffError
		}
		service.logger.Debug(logMessageFilePreviewedConstant, zap.String(logFieldFilePathConstant, filePath))
		service.reporter.ReportPreview(filePath, renderedDiff)
		return result, nil
	}

	if writeError := service.writeText(filePath, outcome.Content, fileInfo.Mode().Perm()); writeError != nil {
		return FileResult{}, writeError
	}

	service.logger.Debug(logMessageFileRewrittenConstant, zap.String(logFieldFilePathConstant, filePath))
	service.reporter.ReportFixed(filePath)
	result.Written = true
	return result, nil
}

// isMissingPath reports stat failures meaning the path does not resolve to a file,
// including a path component that is a regular file.
func isMissingPath(statError error) bool {
	return errors.Is(statError, fs.ErrNotExist) || errors.Is(statError, syscall.ENOTDIR)
}

func (service *Service) readText(filePath string) (string, error) {
	file, openError := service.fileSystem.Open(filePath)
	if openError != nil {
		return "", newFileOperationError(FileOperationRead, filePath, openError)
	}
	defer file.Close()

	content, readError := io.ReadAll(file)
	if readError != nil {
		return "", newFileOperationError(FileOperationRead, filePath, readError)
	}

	if !utf8.Valid(content) {
		return "", newFileOperationError(FileOperationDecode, filePath, ErrInvalidUTF8)
	}

	return string(content), nil
}

func (service *Service) writeText(filePath string, content string, permissions fs.FileMode) (writeResult error) {
	file, openError := service.fileSystem.OpenFile(filePath, rewriteOpenFlagsConstant, permissions)
	if openError != nil {
		return newFileOperationError(FileOperationWrite, filePath, openError)
	}
	defer func() {
		closeError := file.Close()
		if closeError != nil && writeResult == nil {
			writeResult = newFileOperationError(FileOperationWrite, filePath, closeError)
		}
	}()

	if _, writeError := io.WriteString(file, content); writeError != nil {
		return newFileOperationError(FileOperationWrite, filePath, writeError)
	}

	return nil
}

func (service *Service) logRuleApplications(filePath string, applications []RuleApplication) {
	for _, application := range applications {
		if application.Matches == 0 {
			continue
		}
		service.logger.Debug(
			logMessageRuleAppliedConstant,
			zap.String(logFieldFilePathConstant, filePath),
			zap.String(logFieldRuleNameConstant, application.RuleName),
			zap.Int(logFieldRuleMatchesConstant, application.Matches),
		)
	}
}
