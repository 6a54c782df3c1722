package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldService   = "service"
	FieldStub      = "stub"
	FieldMethod    = "method"
	FieldClass     = "class"
	FieldVariant   = "variant"
	FieldFile      = "file"
	FieldPath      = "path"
	FieldBinary    = "binary"
	FieldCount     = "count"
	FieldExitCode  = "exit_code"

	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to hand a logger to a constructor.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	svcLogger := logger.ChildLogger(base, logger.FieldService, svc.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
