// Package utils exposes reusable helpers consumed by the overseer commands.
//
// It houses ConfigurationLoader, which layers embedded defaults, an optional
// configuration file, and OVERSEER_ environment variables through Viper, and
// LoggerFactory, which builds zap loggers writing diagnostics to standard error.
package utils
