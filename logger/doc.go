// Package logger is a thin package-level wrapper over log/slog with an
// optional rotating log file.
//
// Configuration:
//
// LoadConfig reads the logging section of a YAML file on top of
// DefaultConfig; keys the file leaves out keep their defaults. The
// CARC_LOG_LEVEL, CARC_LOG_CONSOLE_FORMAT, CARC_LOG_FILE_ENABLED and
// CARC_LOG_FILE_PATH environment variables override the file.
//
//	logging:
//	  level: DEBUG
//	  console_format: text
//	  file_enabled: true
//	  file_path: logs/carcassonne.log
//	  file_format: json
//
// Console and file each take a text or json format. The file is rotated by
// lumberjack by size, with a bounded number of backups and age.
//
// Usage:
//
//	cfg, _ := logger.LoadConfig("logging.yaml")
//	if err := logger.Initialize(cfg); err != nil {
//		log.Fatal(err)
//	}
//	defer logger.Close()
//
//	logger.Info("session created", "session", id)
//
// Before Initialize, log calls are discarded.
package logger
