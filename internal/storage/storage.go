// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/OCAP2/acmi/internal/model/convert"
	"github.com/OCAP2/acmi/pkg/core"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// StoreRecording persists one parsed recording. name identifies its
	// source (file name or archive entry).
	StoreRecording(ctx context.Context, name string, rec *core.Recording) error
}

// Exporter is an optional interface for storage backends that produce a file
// per stored recording.
type Exporter interface {
	ExportedFilePath() string
}

// Snapshotter is an optional interface for backends able to copy their whole
// database into a standalone file.
type Snapshotter interface {
	Snapshot(path string) error
}

// Reader is an optional interface for backends that can answer queries on
// what they stored.
type Reader interface {
	Recordings(ctx context.Context) ([]convert.RecordingInfo, error)
	// ValueAt returns the value of prop for an entity of a stored recording in
	// effect at *at, or the latest value when at is nil.
	ValueAt(ctx context.Context, recordingID uint, objectID, prop string, at *float64) (core.Value, bool, error)
}
