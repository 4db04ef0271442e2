// Package influxstorage implements the storage.Backend interface on InfluxDB v2.
// Each stored recording becomes one point per (entity, timeframe) that carries
// the numeric samples written at that timeframe.
package influxstorage

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/queue"
	"github.com/OCAP2/acmi/pkg/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
)

// Measurement is the name of every point written by the backend.
const Measurement = "acmi_object"

// DefaultBatchSize is used when the config leaves influx.batchSize unset.
const DefaultBatchSize = 5000

// retention of the bucket created on first use
const retentionSeconds = 60 * 60 * 24 * 90

// Dependencies holds what the InfluxDB backend needs besides its config.
type Dependencies struct {
	Logger zerolog.Logger
	// BackupPath receives gzipped line protocol when the server is unreachable.
	// Empty disables the fallback.
	BackupPath string
}

// Backend writes recordings to InfluxDB or to a backup file.
type Backend struct {
	cfg    config.InfluxConfig
	deps   Dependencies
	logger zerolog.Logger

	client     influxdb2.Client
	writer     influxdb2_api.WriteAPIBlocking
	backupFile *os.File
	backup     *gzip.Writer
	isValid    bool

	points *queue.Queue[*influxdb2_write.Point]
}

// New creates a new InfluxDB backend.
func New(cfg config.InfluxConfig, deps Dependencies) *Backend {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Backend{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.With().Str("component", "influx").Logger(),
		points: queue.New[*influxdb2_write.Point](),
	}
}

// Init connects to the server, creating the organization and bucket when missing.
// An unreachable server switches to the backup file if one is configured.
func (b *Backend) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b.client = influxdb2.NewClientWithOptions(
		b.cfg.URL(),
		b.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(b.cfg.BatchSize)).
			SetHTTPRequestTimeout(30),
	)

	// validate client connection health
	running, err := b.client.Ping(ctx)
	if err != nil || !running {
		b.isValid = false
		if b.deps.BackupPath == "" {
			return fmt.Errorf("influxdb at %s is not reachable: %v", b.cfg.URL(), err)
		}
		b.logger.Warn().Err(err).Str("backupPath", b.deps.BackupPath).
			Msg("InfluxDB not reachable, writing line protocol to backup file")
		return b.openBackup()
	}

	if err := b.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	b.writer = b.client.WriteAPIBlocking(b.cfg.Org, b.cfg.Bucket)
	b.isValid = true
	b.logger.Info().Str("url", b.cfg.URL()).Str("bucket", b.cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (b *Backend) openBackup() error {
	file, err := os.OpenFile(b.deps.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	b.backupFile = file
	b.backup = gzip.NewWriter(file)
	return nil
}

func (b *Backend) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := b.client.OrganizationsAPI()

	// ensure org exists
	org, err := orgs.FindOrganizationByName(ctx, b.cfg.Org)
	if err != nil {
		b.logger.Info().Str("org", b.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, b.cfg.Org)
		if err != nil {
			return fmt.Errorf("error creating organization %q: %w", b.cfg.Org, err)
		}
	}

	// ensure bucket exists with 90 day retention
	if _, err := b.client.BucketsAPI().FindBucketByName(ctx, b.cfg.Bucket); err != nil {
		b.logger.Info().Str("bucket", b.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = b.client.BucketsAPI().CreateBucketWithName(ctx, org, b.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %q: %w", b.cfg.Bucket, err)
		}
	}
	return nil
}

// Close flushes the backup file and releases the client.
func (b *Backend) Close() error {
	var err error
	if b.backup != nil {
		err = b.backup.Close()
		if cerr := b.backupFile.Close(); err == nil {
			err = cerr
		}
		b.backup = nil
	}
	if b.client != nil {
		b.client.Close()
	}
	return err
}

// StoreRecording writes every point of rec in batches of the configured size.
func (b *Backend) StoreRecording(ctx context.Context, name string, rec *core.Recording) error {
	if !b.isValid && b.backup == nil {
		return fmt.Errorf("influxdb backend not initialized")
	}

	points := Points(name, rec)
	b.points.Push(points...)

	err := b.points.Drain(b.cfg.BatchSize, func(batch []*influxdb2_write.Point) error {
		return b.writePoints(ctx, batch)
	})
	if err != nil {
		b.points.PopN(0)
		return err
	}

	b.logger.Info().Str("source", name).Int("points", len(points)).Msg("Recording written")
	return nil
}

func (b *Backend) writePoints(ctx context.Context, batch []*influxdb2_write.Point) error {
	if b.isValid {
		if err := b.writer.WritePoint(ctx, batch...); err != nil {
			return fmt.Errorf("error sending data to InfluxDB: %w", err)
		}
		return nil
	}

	for _, p := range batch {
		line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
		if _, err := b.backup.Write([]byte(line)); err != nil {
			return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
		}
	}
	return nil
}

// Points builds the points of rec: one per entity and timeframe at which the
// entity had at least one numeric sample. Text properties become tags only
// through the entity's name, type label and country.
func Points(source string, rec *core.Recording) []*influxdb2_write.Point {
	session := rec.Session()
	var out []*influxdb2_write.Point

	for _, e := range rec.Entities() {
		frames := numericFrames(e)
		if len(frames) == 0 {
			continue
		}

		tags := map[string]string{
			"source":    source,
			"object_id": e.ID,
		}
		addTag(tags, "title", session.Title)
		addTag(tags, "name", e.Name)
		addTag(tags, "type", e.TypeLabel)
		addTag(tags, "country", e.Country)

		times := make([]float64, 0, len(frames))
		for t := range frames {
			times = append(times, t)
		}
		sort.Float64s(times)

		for _, t := range times {
			out = append(out, influxdb2_write.NewPoint(Measurement, tags, frames[t], timestamp(session, t)))
		}
	}
	return out
}

func numericFrames(e *core.Entity) map[float64]map[string]interface{} {
	frames := make(map[float64]map[string]interface{})
	for _, prop := range e.Properties() {
		e.Series(prop).Each(func(t float64, v core.Value) bool {
			f, ok := v.Float()
			if !ok {
				return true
			}
			fields, exists := frames[t]
			if !exists {
				fields = make(map[string]interface{})
				frames[t] = fields
			}
			fields[prop] = f
			return true
		})
	}
	return frames
}

func addTag(tags map[string]string, key, value string) {
	if value != "" {
		tags[key] = value
	}
}

// timestamp places offset t on the reference clock, or on the Unix epoch when
// the recording has none.
func timestamp(s core.Session, t float64) time.Time {
	if ts := s.TimeAt(t); !ts.IsZero() {
		return ts
	}
	return time.Unix(0, 0).UTC().Add(time.Duration(t * float64(time.Second)))
}
