package report

import "sync"

// Reporter receives non-fatal errors from engine components. Schema I/O
// failures and contract violations are reported here instead of being
// returned on query paths, which degrade to empty results.
type Reporter interface {
	Report(err error)
}

// LogReporter forwards reported errors to a Logger at error level.
type LogReporter struct {
	logger *Logger
}

// NewLogReporter creates a reporter backed by the given logger.
// A nil logger falls back to NullLogger.
func NewLogReporter(logger *Logger) *LogReporter {
	if logger == nil {
		logger = NullLogger
	}
	return &LogReporter{logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(err error) {
	if err == nil {
		return
	}
	r.logger.Error("%v", err)
}

// Collector accumulates reported errors. It is safe for concurrent use
// and is primarily useful in tests and batch tooling.
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// Report implements Reporter.
func (c *Collector) Report(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errs))
	copy(out, c.errs)
	return out
}

// Len returns the number of collected errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}
