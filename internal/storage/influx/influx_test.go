package influxstorage

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/pkg/core"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reference = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func sortie(ref time.Time) *core.Recording {
	reg := core.NewRegistry()

	jet := reg.GetOrCreate("A0100")
	jet.Set(core.PropName, 0, core.Text("F-16C-52"))
	jet.SetTypeLabel(0, "Plane")
	jet.Set(core.PropAltitude, 0, core.Number(1500))
	jet.Set("IAS", 0, core.Number(250))
	jet.Set(core.PropAltitude, 1.5, core.Number(1600))
	jet.Set("Pilot", 2, core.Text("Viper"))

	bullseye := reg.GetOrCreate("40000001")
	bullseye.Set(core.PropName, 0, core.Text("Bullseye"))

	return core.NewRecording(core.Session{
		FileType:      "text/acmi/tacview",
		FileVersion:   2.2,
		ReferenceTime: ref,
		Title:         "Sortie",
	}, reg, []float64{0, 1.5, 2}, nil, nil)
}

func TestPoints(t *testing.T) {
	points := Points("sortie.acmi", sortie(reference))

	// text-only timeframes and text-only entities produce no point
	require.Len(t, points, 2)

	first := points[0]
	assert.Equal(t, Measurement, first.Name())
	assert.Equal(t, reference, first.Time())

	tags := map[string]string{}
	for _, tag := range first.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{
		"source":    "sortie.acmi",
		"object_id": "A0100",
		"title":     "Sortie",
		"name":      "F-16C-52",
		"type":      "Plane",
	}, tags)

	fields := map[string]interface{}{}
	for _, f := range first.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, map[string]interface{}{"Altitude": 1500.0, "IAS": 250.0}, fields)

	second := points[1]
	assert.Equal(t, reference.Add(1500*time.Millisecond), second.Time())
	require.Len(t, second.FieldList(), 1)
	assert.Equal(t, "Altitude", second.FieldList()[0].Key)
	assert.Equal(t, 1600.0, second.FieldList()[0].Value)
}

func TestPoints_NoReferenceTime(t *testing.T) {
	points := Points("x.acmi", sortie(time.Time{}))
	require.Len(t, points, 2)
	assert.Equal(t, time.Unix(0, 0).UTC().Add(1500*time.Millisecond), points[1].Time())
}

func TestNew_DefaultBatchSize(t *testing.T) {
	b := New(config.InfluxConfig{}, Dependencies{Logger: zerolog.Nop()})
	assert.Equal(t, DefaultBatchSize, b.cfg.BatchSize)
}

func TestStoreRecording_NotInitialized(t *testing.T) {
	b := New(config.InfluxConfig{}, Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.StoreRecording(context.Background(), "x", sortie(reference)))
}

// unreachable returns a config pointing at a closed local port.
func unreachable() config.InfluxConfig {
	return config.InfluxConfig{
		Protocol:  "http",
		Host:      "127.0.0.1",
		Port:      "1",
		Org:       "acmi",
		Bucket:    "acmi-telemetry",
		BatchSize: 1,
	}
}

func TestInit_UnreachableWithoutBackup(t *testing.T) {
	b := New(unreachable(), Dependencies{Logger: zerolog.Nop()})
	defer b.Close()
	assert.ErrorContains(t, b.Init(), "not reachable")
}

func TestStoreRecording_Backup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.lp.gz")
	b := New(unreachable(), Dependencies{Logger: zerolog.Nop(), BackupPath: path})
	require.NoError(t, b.Init())

	require.NoError(t, b.StoreRecording(context.Background(), "sortie.acmi", sortie(reference)))
	require.NoError(t, b.Close())
	assert.True(t, b.points.Empty())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	var lines []string
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], Measurement+","), lines[0])
	assert.Contains(t, lines[0], "object_id=A0100")
	assert.Contains(t, lines[0], "Altitude=1500")
	assert.True(t, strings.HasSuffix(lines[1], "1714557601500000000"), lines[1])
}
