package lambda

import (
	"context"
	"sync"

	"stream-ingest-api/internal/adapters/stream"
)

// StreamFactory builds the delivery stream client
type StreamFactory func(config *stream.StreamConfig) (stream.DeliveryStream, error)

// StreamManager owns the process-wide delivery stream client for a Lambda
// function. The client is built on first use and then shared read-only by
// every invocation the execution environment serves. StreamManager itself
// implements stream.DeliveryStream so handlers can take it as their stream.
type StreamManager struct {
	config  *stream.StreamConfig
	factory StreamFactory

	initOnce sync.Once
	stream   stream.DeliveryStream
	initErr  error

	mu     sync.RWMutex
	closed bool
}

// NewStreamManager creates a manager that builds its client with factory;
// a nil factory uses stream.CreateFromConfig
func NewStreamManager(config *stream.StreamConfig, factory StreamFactory) *StreamManager {
	if factory == nil {
		factory = stream.CreateFromConfig
	}
	return &StreamManager{
		config:  config,
		factory: factory,
	}
}

// GetStream returns the delivery stream, initializing it if necessary.
// An initialization failure is returned on this and every later call.
// Once the manager is closed no client is built or handed out.
func (sm *StreamManager) GetStream(ctx context.Context) (stream.DeliveryStream, error) {
	if sm.isClosed() {
		return nil, stream.NewStreamError("GetStream", sm.Name(), stream.ErrStreamClosed, false)
	}

	sm.initOnce.Do(func() {
		s, err := sm.factory(sm.config)
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if sm.closed && s != nil {
			_ = s.Close()
			s, err = nil, stream.NewStreamError("GetStream", sm.Name(), stream.ErrStreamClosed, false)
		}
		sm.stream, sm.initErr = s, err
	})
	if sm.initErr != nil {
		return nil, sm.initErr
	}

	return sm.stream, nil
}

func (sm *StreamManager) isClosed() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.closed
}

// PutRecord implements stream.DeliveryStream
func (sm *StreamManager) PutRecord(ctx context.Context, rec stream.Record) error {
	s, err := sm.GetStream(ctx)
	if err != nil {
		return err
	}
	return s.PutRecord(ctx, rec)
}

// Name implements stream.DeliveryStream
func (sm *StreamManager) Name() string {
	if sm.config == nil {
		return ""
	}
	return sm.config.Name
}

// IsHealthy reports whether the client has been built successfully and
// the manager is still open
func (sm *StreamManager) IsHealthy() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return !sm.closed && sm.stream != nil && sm.initErr == nil
}

// Close implements stream.DeliveryStream. Closing twice is a no-op.
func (sm *StreamManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.closed {
		return nil
	}
	sm.closed = true

	if sm.stream != nil {
		return sm.stream.Close()
	}
	return nil
}
