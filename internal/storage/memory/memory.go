// internal/storage/memory/memory.go
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/export"
	"github.com/OCAP2/acmi/pkg/core"
	"github.com/klauspost/compress/gzip"
)

// Backend writes every stored recording as one JSON document, optionally gzipped
type Backend struct {
	cfg config.MemoryConfig
	log *slog.Logger

	mu             sync.Mutex
	lastExportPath string
	now            func() time.Time
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// Init ensures the output directory exists
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StoreRecording writes the full document of rec into the output directory.
func (b *Backend) StoreRecording(ctx context.Context, name string, rec *core.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := export.Build(name, rec)
	outputPath := filepath.Join(b.cfg.OutputDir, b.fileName(name, rec.Session()))

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, doc)
	} else {
		err = writeJSON(outputPath, doc)
	}
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.lastExportPath = outputPath
	b.mu.Unlock()

	b.log.Info("Recording exported", "path", outputPath, "entities", len(doc.Entities))
	return nil
}

// ExportedFilePath returns the path of the last written document.
func (b *Backend) ExportedFilePath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastExportPath
}

// fileName builds <title>_<reference time>.json[.gz]. The source name stands in
// for a missing title and the current time for a missing reference time.
func (b *Backend) fileName(source string, s core.Session) string {
	base := s.Title
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	base = sanitize(base)

	ts := s.ReferenceTime
	if ts.IsZero() {
		ts = b.now()
	}
	timestamp := ts.UTC().Format("20060102_150405")

	if b.cfg.CompressOutput {
		return fmt.Sprintf("%s_%s.json.gz", base, timestamp)
	}
	return fmt.Sprintf("%s_%s.json", base, timestamp)
}

var unsafeChars = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

func sanitize(name string) string {
	name = unsafeChars.Replace(strings.TrimSpace(name))
	if name == "" {
		return "recording"
	}
	return name
}

func writeJSON(path string, doc export.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := encode(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeGzipJSON(path string, doc export.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := encode(gzWriter, doc); err != nil {
		gzWriter.Close()
		return err
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return f.Close()
}

func encode(w io.Writer, doc export.Document) error {
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}
	return nil
}
