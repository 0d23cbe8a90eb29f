// Package cli builds the session-migrate command-line interface: the Cobra
// root command, the layered configuration loader, and the structured logger
// shared with the migration service.
package cli
