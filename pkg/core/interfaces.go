package core

// Logger interface for render progress output
type Logger interface {
	Printf(format string, args ...interface{})
}
