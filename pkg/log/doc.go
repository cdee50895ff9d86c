// Package log provides the logging abstraction used by extman components.
//
// The Logger interface can be implemented by any logging library. A zerolog
// adapter is provided for production use and a no-op logger for embedding
// hosts that do their own logging, and for tests:
//
//	logger := log.NewZerologAdapter()
//	quiet := log.NewNoopLogger()
//
// To integrate an existing logging setup, implement the four leveled methods:
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
//
// See version.go for version constants that can be used programmatically.
package log
