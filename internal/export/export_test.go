package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/acmi/internal/parser"
	"github.com/OCAP2/acmi/pkg/core"
)

const flight = `FileType=text/acmi/tacview
FileVersion=2.1
0,ReferenceTime=2020-01-01T00:00:00Z,Title=Red Flag,Category=Training
#0
A1,T=1|2|3,Name=Viper,Type=Air+FixedWing,IAS=200
B2,T=4|5|6,Name=Slammer,Type=Weapon+Missile,Flavor=x
#5
A1,IAS=210
-B2
`

func testRecording(t *testing.T, input string) *core.Recording {
	t.Helper()
	p := parser.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec, err := p.Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	return rec
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestColumns_RemoveEmpty(t *testing.T) {
	rec := testRecording(t, flight)
	assert.Equal(t,
		[]string{"ReferenceTime", "Category", "ID", "Name", "Tags", "Type", "Time",
			"Longitude", "Latitude", "Altitude", "IAS", "Flavor"},
		Columns(rec, true))
}

func TestColumns_RemoveEmptyWithoutSession(t *testing.T) {
	rec := testRecording(t, "FileType=text/acmi/tacview\nFileVersion=2.1\nA1,Color=Red\n")
	assert.Equal(t, []string{"ID", "Name", "Tags", "Type", "Time", "Color"}, Columns(rec, true))
}

func TestColumns_Full(t *testing.T) {
	rec := testRecording(t, flight)
	cols := Columns(rec, false)

	assert.Equal(t, fixedColumns, cols[:len(fixedColumns)])
	assert.Equal(t, "Longitude", cols[len(fixedColumns)])
	assert.Equal(t, "Flavor", cols[len(cols)-1])
	assert.Contains(t, cols, "SpO2")
	assert.Contains(t, cols, "LockedTarget9")

	seen := map[string]bool{}
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}

func TestWriteCSV(t *testing.T) {
	rec := testRecording(t, flight)

	var buf bytes.Buffer
	var progress []int
	rows, err := WriteCSV(&buf, rec, CSVOptions{
		RemoveEmpty: true,
		Progress:    func(done, total int) { progress = append(progress, done*10+total) },
	})
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, []int{12, 22}, progress)

	got := readCSV(t, buf.String())
	require.Len(t, got, 5)
	assert.Equal(t, []string{"2020-01-01T00:00:00Z", "Training", "A1", "Viper", "Air+FixedWing", "Plane", "0", "1", "2", "3", "200", ""}, got[1])
	assert.Equal(t, []string{"2020-01-01T00:00:00Z", "Training", "B2", "Slammer", "Weapon+Missile", "Missile", "0", "4", "5", "6", "", "x"}, got[2])
	assert.Equal(t, "210", got[3][10])
	assert.Equal(t, "5", got[3][6])
	assert.Equal(t, "B2", got[4][2])
}

func TestWriteCSV_FilterIDs(t *testing.T) {
	rec := testRecording(t, flight)

	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, rec, CSVOptions{RemoveEmpty: true, IDs: []string{"B2", "ZZ"}})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	got := readCSV(t, buf.String())
	for _, row := range got[1:] {
		assert.Equal(t, "B2", row[2])
	}
}

func TestWriteCSVFile_CreatesDirectories(t *testing.T) {
	rec := testRecording(t, flight)
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	rows, err := WriteCSVFile(path, rec, CSVOptions{RemoveEmpty: true})
	require.NoError(t, err)
	assert.Equal(t, 4, rows)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ReferenceTime,Category,ID,Name,Tags,Type,Time,"))
}

func TestNewSummary(t *testing.T) {
	rec := testRecording(t, flight)
	s := NewSummary(rec)

	assert.Equal(t, "text/acmi/tacview", s.FileType)
	assert.Equal(t, 2.1, s.FileVersion)
	assert.Equal(t, "Red Flag", s.Title)
	assert.Equal(t, 2, s.Objects)
	assert.Equal(t, 2, s.TimeFrames)
	require.NotNil(t, s.ReferenceTime)
	assert.Nil(t, s.RecordingTime)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ReferenceTime":"2020-01-01T00:00:00Z"`)
	assert.Contains(t, string(data), `"RecordingTime":null`)
}

func TestSnapshot(t *testing.T) {
	rec := testRecording(t, flight)
	a1, _ := rec.Entity("A1")

	latest := Snapshot(a1, nil)
	assert.Equal(t, "A1", latest["ID"])
	assert.Equal(t, "Plane", latest["Type"])
	assert.Equal(t, 210.0, latest["IAS"])
	assert.NotContains(t, latest, "RemovedAt")

	at := 0.0
	early := Snapshot(a1, &at)
	assert.Equal(t, 200.0, early["IAS"])

	b2, _ := rec.Entity("B2")
	assert.Equal(t, 5.0, Snapshot(b2, nil)["RemovedAt"])

	data, err := json.Marshal(Snapshots(rec, &at))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"IAS":200`)
	assert.Contains(t, string(data), `"Flavor":"x"`)
}

func TestBuild(t *testing.T) {
	rec := testRecording(t, flight)
	doc := Build("flight.txt.acmi", rec)

	assert.Equal(t, "flight.txt.acmi", doc.Source)
	assert.Equal(t, []float64{0, 5}, doc.Timeframes)
	require.Len(t, doc.Entities, 2)

	a1 := doc.Entities[0]
	assert.Equal(t, "A1", a1.ID)
	assert.Nil(t, a1.RemovedAt)
	assert.Equal(t, []Sample{{0, core.Number(200)}, {5, core.Number(210)}}, a1.Properties["IAS"])

	b2 := doc.Entities[1]
	require.NotNil(t, b2.RemovedAt)
	assert.Equal(t, 5.0, *b2.RemovedAt)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "Flavor", doc.Diagnostics[0].Property)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"IAS":[{"t":0,"v":200},{"t":5,"v":210}]`)
}
