// Package logger provides structured logging for streamkit using zerolog.
//
// Library code logs through component loggers obtained from Get, which fall
// back to the global logger. The global logger defaults to a console writer
// at info level, so the debug lines emitted by stream terminals stay silent
// unless an application lowers the level through Init.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("stream")
//	log.Debug("terminal finished", logger.Fields("terminal", "collect", "emitted", 3))
package logger
