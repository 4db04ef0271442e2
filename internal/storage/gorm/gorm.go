// Package gormstorage implements the storage.Backend interface using GORM.
// The same backend serves SQLite and PostgreSQL; the dialect only matters for
// schema setup and snapshots.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/OCAP2/acmi/internal/database"
	"github.com/OCAP2/acmi/internal/model"
	"github.com/OCAP2/acmi/internal/model/convert"
	"github.com/OCAP2/acmi/internal/queue"
	"github.com/OCAP2/acmi/pkg/core"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is the number of sample or position rows per INSERT.
const DefaultBatchSize = 2000

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	BatchSize int
}

// queues holds the write queues for batch DB insertion.
type queues struct {
	Samples   *queue.Queue[model.Sample]
	Positions *queue.Queue[model.Position]
}

func newQueues() *queues {
	return &queues{
		Samples:   queue.New[model.Sample](),
		Positions: queue.New[model.Position](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps   Dependencies
	log    *slog.Logger
	queues *queues
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.BatchSize <= 0 {
		deps.BatchSize = DefaultBatchSize
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		deps:   deps,
		log:    log,
		queues: newQueues(),
	}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend has no database")
	}
	return database.Setup(b.deps.DB, b.log)
}

// Close releases the database connection.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	return database.Close(b.deps.DB)
}

// StoreRecording writes the recording, its entities, every series sample and
// the position track of each entity in one transaction.
func (b *Backend) StoreRecording(ctx context.Context, name string, rec *core.Recording) error {
	start := time.Now()
	var recordingID uint

	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = tx.Omit(clause.Associations).Session(&gorm.Session{})

		recording := convert.CoreToRecording(name, rec)
		if err := tx.Create(&recording).Error; err != nil {
			return fmt.Errorf("failed to insert recording: %w", err)
		}
		recordingID = recording.ID

		entities := rec.Entities()
		if len(entities) == 0 {
			return nil
		}
		rows := make([]model.Entity, len(entities))
		for i, e := range entities {
			rows[i] = convert.CoreToEntity(recording.ID, e)
		}
		if err := tx.CreateInBatches(&rows, b.deps.BatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert entities: %w", err)
		}

		for i, e := range entities {
			b.queues.Samples.Push(convert.CoreToSamples(rows[i].ID, e)...)
			b.queues.Positions.Push(convert.CoreToPositions(rows[i].ID, e)...)

			if b.queues.Samples.Len() >= b.deps.BatchSize {
				if err := b.flush(tx); err != nil {
					return err
				}
			}
		}
		return b.flush(tx)
	})
	if err != nil {
		// a failed transaction leaves nothing worth writing
		b.queues.Samples.PopN(0)
		b.queues.Positions.PopN(0)
		return err
	}

	b.log.Info("Recording stored",
		"source", name,
		"recordingId", recordingID,
		"entities", rec.Registry().Len(),
		"duration", time.Since(start))
	return nil
}

func (b *Backend) flush(tx *gorm.DB) error {
	size := b.deps.BatchSize
	if err := b.queues.Samples.Drain(size, func(batch []model.Sample) error {
		return tx.CreateInBatches(&batch, size).Error
	}); err != nil {
		return fmt.Errorf("failed to insert samples: %w", err)
	}
	if err := b.queues.Positions.Drain(size, func(batch []model.Position) error {
		return tx.CreateInBatches(&batch, size).Error
	}); err != nil {
		return fmt.Errorf("failed to insert positions: %w", err)
	}
	return nil
}

// Snapshot copies a SQLite database into a standalone file at path.
func (b *Backend) Snapshot(path string) error {
	return database.DumpSqliteToDisk(b.deps.DB, path, b.log)
}

// Recordings lists the stored recordings in insertion order.
func (b *Backend) Recordings(ctx context.Context) ([]convert.RecordingInfo, error) {
	var rows []model.Recording
	if err := b.deps.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	out := make([]convert.RecordingInfo, 0, len(rows))
	for _, r := range rows {
		info, err := convert.RecordingToInfo(r)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// ValueAt reads back a stored value with the lookup rule of core.Series.At:
// the sample at *at, else the latest one before it, else the first one.
// With at nil the latest sample is returned.
func (b *Backend) ValueAt(ctx context.Context, recordingID uint, objectID, prop string, at *float64) (core.Value, bool, error) {
	db := b.deps.DB.WithContext(ctx)

	var entity model.Entity
	err := db.Where("recording_id = ? AND object_id = ?", recordingID, objectID).Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Value{}, false, nil
	}
	if err != nil {
		return core.Value{}, false, fmt.Errorf("failed to load entity %s: %w", objectID, err)
	}

	props, err := convert.EntityProperties(entity)
	if err != nil {
		return core.Value{}, false, err
	}
	if !slices.Contains(props, prop) {
		return core.Value{}, false, nil
	}

	timeColumn := clause.Column{Name: "time"}
	samples := func() *gorm.DB {
		return db.Where("entity_id = ? AND property = ?", entity.ID, prop)
	}

	var sample model.Sample
	if at == nil {
		err = samples().Order(clause.OrderByColumn{Column: timeColumn, Desc: true}).Take(&sample).Error
	} else {
		err = samples().Where(clause.Lte{Column: timeColumn, Value: *at}).
			Order(clause.OrderByColumn{Column: timeColumn, Desc: true}).Take(&sample).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = samples().Order(clause.OrderByColumn{Column: timeColumn}).Take(&sample).Error
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Value{}, false, nil
	}
	if err != nil {
		return core.Value{}, false, fmt.Errorf("failed to load %s of entity %s: %w", prop, objectID, err)
	}
	return convert.SampleToValue(sample), true, nil
}
