package log

// MultiLogger sends events to several loggers, typically a FileLogger
// plus a SlogAdapter for console output.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger fanning out to all given loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log sends the event to every configured logger in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
