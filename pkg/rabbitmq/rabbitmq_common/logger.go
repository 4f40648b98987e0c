package rabbitmq_common

// Logger - логгер пакетов rabbitmq. Приложение подключает свой через мост,
// пары ключ-значение идут после сообщения.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(err error, msg string, keysAndValues ...any)
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any)        {}
func (discardLogger) Info(string, ...any)         {}
func (discardLogger) Warn(string, ...any)         {}
func (discardLogger) Error(error, string, ...any) {}

// NewNoopLogger - логгер по умолчанию, когда в конфиге Logger не задан.
func NewNoopLogger() Logger {
	return discardLogger{}
}

// WithKeyValues добавляет пары ключ-значение ко всем записям logger.
func WithKeyValues(logger Logger, keysAndValues ...any) Logger {
	if logger == nil {
		logger = NewNoopLogger()
	}
	if len(keysAndValues) == 0 {
		return logger
	}
	return scopedLogger{next: logger, scope: keysAndValues}
}

type scopedLogger struct {
	next  Logger
	scope []any
}

func (l scopedLogger) with(keysAndValues []any) []any {
	merged := make([]any, 0, len(l.scope)+len(keysAndValues))
	merged = append(merged, l.scope...)
	return append(merged, keysAndValues...)
}

func (l scopedLogger) Debug(msg string, keysAndValues ...any) {
	l.next.Debug(msg, l.with(keysAndValues)...)
}

func (l scopedLogger) Info(msg string, keysAndValues ...any) {
	l.next.Info(msg, l.with(keysAndValues)...)
}

func (l scopedLogger) Warn(msg string, keysAndValues ...any) {
	l.next.Warn(msg, l.with(keysAndValues)...)
}

func (l scopedLogger) Error(err error, msg string, keysAndValues ...any) {
	l.next.Error(err, msg, l.with(keysAndValues)...)
}
