// Package logger provides named zap loggers for the whole module.
// All loggers share a single atomic level so the log level configured at
// startup (CLI flag or environment) applies everywhere at once.
//
// Usage:
//
//	var log = logger.GetLogger("storage")
//	log.Infof("mounted %s", base)
package logger
