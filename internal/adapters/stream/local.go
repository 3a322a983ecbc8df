package stream

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalFileStream implements DeliveryStream on the local filesystem.
// Records are appended to hourly objects laid out the way Firehose lays
// them out in S3, so local output can be inspected with the same tooling.
type LocalFileStream struct {
	basePath   string
	name       string
	instanceID string
	now        func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewLocalFileStream creates a new LocalFileStream instance
func NewLocalFileStream(basePath, name string) (*LocalFileStream, error) {
	if name == "" {
		return nil, NewStreamError("NewLocalFileStream", "", ErrInvalidStreamName, false)
	}

	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStreamError("NewLocalFileStream", name, err, false)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStreamError("NewLocalFileStream", name, err, false)
	}

	return &LocalFileStream{
		basePath:   absPath,
		name:       name,
		instanceID: uuid.New().String(),
		now:        time.Now,
	}, nil
}

// PutRecord implements DeliveryStream.PutRecord
func (l *LocalFileStream) PutRecord(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return NewStreamError("PutRecord", l.name, err, false)
	}
	if len(rec.Data) == 0 {
		return NewStreamError("PutRecord", l.name, ErrEmptyRecord, false)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return NewStreamError("PutRecord", l.name, ErrStreamClosed, false)
	}

	path := l.ObjectPath(l.now().UTC())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewStreamError("PutRecord", l.name, err, true)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return NewStreamError("PutRecord", l.name, err, true)
	}

	// A single write keeps each record contiguous in the object
	if _, err := f.Write(rec.Data); err != nil {
		f.Close()
		return NewStreamError("PutRecord", l.name, err, true)
	}

	if err := f.Close(); err != nil {
		return NewStreamError("PutRecord", l.name, err, true)
	}

	return nil
}

// ObjectPath returns the object a record written at t is appended to
func (l *LocalFileStream) ObjectPath(t time.Time) string {
	prefix := fmt.Sprintf("%04d/%02d/%02d/%02d", t.Year(), t.Month(), t.Day(), t.Hour())
	file := fmt.Sprintf("%s-%s-%s.ndjson", l.name, t.Format("2006-01-02-15"), l.instanceID)
	return filepath.Join(l.basePath, filepath.FromSlash(prefix), sanitizeName(file))
}

// Name implements DeliveryStream.Name
func (l *LocalFileStream) Name() string {
	return l.name
}

// Close implements DeliveryStream.Close
func (l *LocalFileStream) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// sanitizeName keeps stream names from escaping the base path
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return strings.ReplaceAll(name, "..", "_")
}
