package stream

import (
	"context"
	"sync"
)

// MockDeliveryStream is an in-memory implementation of DeliveryStream for testing
type MockDeliveryStream struct {
	mu      sync.RWMutex
	name    string
	records []Record
	failErr error
	calls   int
	closed  bool
}

// NewMockDeliveryStream creates a new MockDeliveryStream instance
func NewMockDeliveryStream(name string) *MockDeliveryStream {
	return &MockDeliveryStream{name: name}
}

// PutRecord implements DeliveryStream.PutRecord
func (m *MockDeliveryStream) PutRecord(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if m.closed {
		return NewStreamError("PutRecord", m.name, ErrStreamClosed, false)
	}
	if m.failErr != nil {
		return m.failErr
	}
	if err := ctx.Err(); err != nil {
		return NewStreamError("PutRecord", m.name, err, false)
	}
	if len(rec.Data) == 0 {
		return NewStreamError("PutRecord", m.name, ErrEmptyRecord, false)
	}

	m.records = append(m.records, Record{
		Data:         append([]byte(nil), rec.Data...), // Copy data
		PartitionKey: rec.PartitionKey,
	})
	return nil
}

// Name implements DeliveryStream.Name
func (m *MockDeliveryStream) Name() string {
	return m.name
}

// Close implements DeliveryStream.Close
func (m *MockDeliveryStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailWith makes every subsequent PutRecord return err; nil restores normal behavior
func (m *MockDeliveryStream) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Records returns a copy of the accepted records
func (m *MockDeliveryStream) Records() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Record(nil), m.records...)
}

// Calls returns how many times PutRecord was invoked, including failures
func (m *MockDeliveryStream) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Reset clears recorded state
func (m *MockDeliveryStream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.calls = 0
	m.failErr = nil
	m.closed = false
}
