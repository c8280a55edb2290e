// Package diag implements a write-only diagnostics sink for warnings and
// errors with source spans. Diagnostic output is side-effectful and
// never affects results.
package diag

import (
	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity is one of the three levels a diagnostic can carry.
type Severity int

const (
	Notice Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Notice:
		return "notice"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Message is one diagnostic: a severity, free-form text and an optional
// source span.
type Message struct {
	Severity Severity
	Text     string
	Span     *pathh.Mark
}

// Sink receives diagnostics. Callers may attach a logger;
// a Sink must never influence compile/eval results.
type Sink interface {
	Emit(Message)
}

// noop discards everything; it is the default when no sink is attached,
// so compile/eval never need a nil check.
type noop struct{}

func (noop) Emit(Message) {}

// NoOp returns a Sink that discards every message.
func NoOp() Sink { return noop{} }

// Collector is an in-memory Sink, mainly useful for tests: it records
// every message for read-back in assertions instead of writing to
// stdout.
type Collector struct {
	Messages []Message
}

func (c *Collector) Emit(m Message) {
	c.Messages = append(c.Messages, m)
}

// zapSink adapts a *zap.Logger into a Sink. Each batch of diagnostics
// sharing a single compile or eval call is tagged with a correlation
// ID, useful when independent compiles run concurrently on separate
// goroutines.
type zapSink struct {
	logger        *zap.Logger
	correlationID string
}

// NewZapSink wraps logger as a Sink. Every message carries a UUID
// correlation ID unique to this Sink instance, so call NewZapSink once
// per compile/eval invocation to get per-call correlation.
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger, correlationID: uuid.NewString()}
}

func (z *zapSink) Emit(m Message) {
	fields := []zap.Field{zap.String("correlation_id", z.correlationID)}
	if m.Span != nil {
		fields = append(fields,
			zap.Int("line", m.Span.Line),
			zap.Int("column", m.Span.Column),
		)
	}
	switch m.Severity {
	case Error:
		z.logger.Error(m.Text, fields...)
	case Warning:
		z.logger.Warn(m.Text, fields...)
	default:
		z.logger.Info(m.Text, fields...)
	}
}
