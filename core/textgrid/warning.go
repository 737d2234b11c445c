package textgrid

import "fmt"

// WarningKind classifies an advisory condition.
type WarningKind int

const (
	// WarnCountMismatch reports a declared size that differs from what was found.
	WarnCountMismatch WarningKind = iota
	// WarnOutOfBounds reports a tier or child outside its container's bounds.
	WarnOutOfBounds
	// WarnDuplicateName reports a tier renamed to keep names unique.
	WarnDuplicateName
)

// String returns the warning kind name.
func (k WarningKind) String() string {
	switch k {
	case WarnCountMismatch:
		return "count_mismatch"
	case WarnOutOfBounds:
		return "out_of_bounds"
	case WarnDuplicateName:
		return "duplicate_name"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal condition found while decoding or mutating a
// document. Tier is empty for document-level conditions.
type Warning struct {
	Kind    WarningKind
	Tier    string
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// Sink receives warnings. A nil Sink disables warnings.
type Sink interface {
	Warn(Warning)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Warning)

// Warn calls f(w).
func (f SinkFunc) Warn(w Warning) {
	f(w)
}

// Collector is a Sink that keeps every warning it receives.
type Collector struct {
	Warnings []Warning
}

// Warn appends w. A nil Collector drops it.
func (c *Collector) Warn(w Warning) {
	if c == nil {
		return
	}
	c.Warnings = append(c.Warnings, w)
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Warnings)
}

// Kinds returns the kind of every collected warning in arrival order.
func (c *Collector) Kinds() []WarningKind {
	if c == nil {
		return nil
	}
	kinds := make([]WarningKind, len(c.Warnings))
	for i, w := range c.Warnings {
		kinds[i] = w.Kind
	}
	return kinds
}

// Warnf formats a warning and sends it to sink. It is a no-op when sink is nil.
func Warnf(sink Sink, kind WarningKind, tier, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Warn(Warning{
		Kind:    kind,
		Tier:    tier,
		Message: fmt.Sprintf(format, args...),
	})
}

// MultiSink sends every warning to each non-nil sink in order.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(w Warning) {
		for _, s := range sinks {
			if s != nil {
				s.Warn(w)
			}
		}
	})
}
