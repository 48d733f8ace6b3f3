// Package logger provides structured logging for todokit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "todoist-smoke").WithComponent("httpclient")
//	log.Info("request sent", logger.Fields("method", "GET", "status", 200))
package logger
