// Package utils exposes the configuration and logging plumbing shared by the
// CLI entrypoint and the migration command.
//
// ConfigurationLoader layers embedded defaults, an optional configuration
// file, and environment variables through Viper. LoggerFactory builds zap
// loggers that write diagnostics to a dedicated sink so they never mix with
// the migration report on standard output.
package utils
