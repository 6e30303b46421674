package logger

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging surface consumed by the rest of the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}
