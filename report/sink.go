package report

import (
	"context"
	"sync"
)

// Exchange is one recorded request/response pair.
type Exchange struct {
	Request  RequestSnapshot  `json:"request"`
	Response ResponseSnapshot `json:"response"`
}

type multiSink []Sink

// Multi returns a Sink that records to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Record(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot) {
	for _, s := range m {
		s.Record(ctx, req, resp)
	}
}

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(context.Context, RequestSnapshot, ResponseSnapshot) {})

// MemorySink keeps every exchange in memory.
type MemorySink struct {
	mu        sync.Mutex
	exchanges []Exchange
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends the exchange.
func (m *MemorySink) Record(_ context.Context, req RequestSnapshot, resp ResponseSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append(m.exchanges, Exchange{Request: req, Response: resp})
}

// Exchanges returns a copy of the recorded exchanges in arrival order.
func (m *MemorySink) Exchanges() []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Exchange, len(m.exchanges))
	copy(out, m.exchanges)
	return out
}

// Len returns the number of recorded exchanges.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exchanges)
}

// Last returns the most recent exchange.
func (m *MemorySink) Last() (Exchange, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.exchanges) == 0 {
		return Exchange{}, false
	}
	return m.exchanges[len(m.exchanges)-1], true
}

// Reset drops all recorded exchanges.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = nil
}
