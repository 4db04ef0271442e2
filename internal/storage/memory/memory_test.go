package memory

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/export"
	"github.com/OCAP2/acmi/pkg/core"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sortie(title string) *core.Recording {
	reg := core.NewRegistry()
	e := reg.GetOrCreate("A0100")
	e.Set(core.PropName, 0, core.Text("F-16C-52"))
	e.Set(core.PropAltitude, 0, core.Number(1000))
	e.Set(core.PropAltitude, 2, core.Number(1200))
	e.MarkRemoved(2)

	return core.NewRecording(core.Session{
		FileType:      "text/acmi/tacview",
		FileVersion:   2.2,
		ReferenceTime: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Title:         title,
	}, reg, []float64{0, 2}, []string{"ID", "Name", "Altitude"}, nil)
}

func TestStoreRecording_JSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir}, discard())
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StoreRecording(context.Background(), "sortie.acmi", sortie("Dawn Patrol: North")))

	path := b.ExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "Dawn_Patrol__North_20240501_103000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "sortie.acmi", doc.Source)
	assert.Equal(t, []float64{0, 2}, doc.Timeframes)
	require.Len(t, doc.Entities, 1)
	ent := doc.Entities[0]
	assert.Equal(t, "A0100", ent.ID)
	require.NotNil(t, ent.RemovedAt)
	assert.Equal(t, 2.0, *ent.RemovedAt)
	require.Len(t, ent.Properties[core.PropAltitude], 2)
	assert.Equal(t, core.Number(1200), ent.Properties[core.PropAltitude][1].Value)
}

func TestStoreRecording_Gzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true}, discard())
	require.NoError(t, b.Init())

	require.NoError(t, b.StoreRecording(context.Background(), "sortie.acmi", sortie("Dawn")))

	path := b.ExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.NewDecoder(gz).Decode(&doc))
	assert.Equal(t, "Dawn", doc.Summary.Title)
}

func TestStoreRecording_CancelledContext(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()}, discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.StoreRecording(ctx, "x.acmi", sortie("x")), context.Canceled)
	assert.Empty(t, b.ExportedFilePath())
}

func TestFileName(t *testing.T) {
	b := New(config.MemoryConfig{}, discard())
	b.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	tests := []struct {
		name    string
		source  string
		session core.Session
		want    string
	}{
		{"title wins", "a.acmi", core.Session{Title: "My Sortie", ReferenceTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, "My_Sortie_20240501_000000.json"},
		{"source without extension", "dir/track.txt.acmi", core.Session{}, "track.txt_20250102_030405.json"},
		{"blank title", "", core.Session{Title: "  "}, "recording_20250102_030405.json"},
		{"path separators", "a.acmi", core.Session{Title: `A/B\C`}, "A_B_C_20250102_030405.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.fileName(tt.source, tt.session))
		})
	}
}
