package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumtrio/kptsignal/internal/models"
)

func TestNewDestinationSelection(t *testing.T) {
	dest, err := NewDestination(&models.Config{OutputFormat: "json", OutputPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &JSONOutput{}, dest)

	dest, err = NewDestination(&models.Config{OutputFormat: "csv", OutputPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &CSVOutput{}, dest)

	dest, err = NewDestination(&models.Config{OutputFormat: "parquet", OutputPath: t.TempDir(), OutputDestination: "local"})
	require.NoError(t, err)
	assert.IsType(t, &ParquetOutput{}, dest)

	dest, err = NewDestination(&models.Config{})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleOutput{}, dest)

	_, err = NewDestination(&models.Config{OutputFormat: "xml", OutputPath: t.TempDir()})
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "exports")

	require.NoError(t, out.WriteMessage("city_analytics", []byte(`{"city":"Pune"}`)))
	require.NoError(t, out.WriteMessage("city_analytics", []byte(`{"city":"Delhi"}`)))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "exports", "city_analytics", "data.json"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"city":"Pune"}`, lines[0])
	assert.JSONEq(t, `{"city":"Delhi"}`, lines[1])
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "exports")

	require.NoError(t, out.WriteMessage("hourly_patterns", []byte(`{"hour":9,"avg_kpt":20.5,"is_peak":false}`)))
	require.NoError(t, out.WriteMessage("hourly_patterns", []byte(`{"hour":12,"avg_kpt":30.1,"is_peak":true}`)))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "exports", "hourly_patterns", "data.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// headers are sorted for a stable column order
	assert.Equal(t, []string{"avg_kpt", "hour", "is_peak"}, rows[0])
	assert.Equal(t, []string{"20.5", "9", "false"}, rows[1])
	assert.Equal(t, []string{"30.1", "12", "true"}, rows[2])
}

func TestCSVOutputRejectsGarbage(t *testing.T) {
	out := NewCSVOutput(t.TempDir(), "exports")
	assert.Error(t, out.WriteMessage("hourly_patterns", []byte("not json")))
}

func TestConsoleOutput(t *testing.T) {
	out := &ConsoleOutput{}
	assert.NoError(t, out.WriteMessage("city_analytics", []byte(`{"city":"Pune"}`)))
	assert.NoError(t, out.Close())
}
