package logger_adapter

import (
	"errors"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/port"
)

// MultiLoggerAdapter - stdout и fluent получают одни и те же записи, каждый со своим уровнем.
type MultiLoggerAdapter []port.LoggerPort

// NewMultiloggerAdapter пропускает nil-логгеры. Если остался один, он возвращается как есть.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make(MultiLoggerAdapter, 0, len(loggers))
	for _, logger := range loggers {
		if logger != nil {
			sinks = append(sinks, logger)
		}
	}

	switch len(sinks) {
	case 0:
		return nil, errors.New("multilogger: at least one logger is required")
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

func (m MultiLoggerAdapter) fanOut(write func(port.LoggerPort)) {
	for _, sink := range m {
		write(sink)
	}
}

func (m MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (m MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	enriched := make(MultiLoggerAdapter, len(m))
	for i, sink := range m {
		enriched[i] = sink.WithFields(fields)
	}
	return enriched
}
