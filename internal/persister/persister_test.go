package persister

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/loader"
	"github.com/gewnthar/icd10pipe/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveInvalid_EmptySetWritesNothing(t *testing.T) {
	base := filepath.Join(t.TempDir(), "errors", "invalid")
	set := &models.RawRecordSet{
		Header:     []string{"Code", "Description"},
		CodeColumn: "Code",
		DescColumn: "Description",
	}

	require.NoError(t, SaveInvalid(set, base, testLogger()))

	_, err := os.Stat(base + Extension)
	assert.True(t, os.IsNotExist(err), "no error artifact expected on a clean run")
	// Not even the parent directory should appear.
	_, err = os.Stat(filepath.Dir(base))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveInvalid_KeepsOriginalColumns(t *testing.T) {
	base := filepath.Join(t.TempDir(), "errors", "invalid")
	set := &models.RawRecordSet{
		Header:     []string{"Kode", "Chapter", "Omschrijving"},
		CodeColumn: "Kode",
		DescColumn: "Omschrijving",
		Records: []models.RawRecord{
			{Code: "BAD", Description: "broken", Extra: map[string]string{"Chapter": "IX"}},
		},
	}

	require.NoError(t, SaveInvalid(set, base, testLogger()))

	raw, err := os.ReadFile(base + Extension)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Kode,Chapter,Omschrijving", lines[0])
	assert.Equal(t, "BAD,IX,broken", lines[1])
}

func TestSaveClean_RoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "csv", "clean")
	records := []models.CleanRecord{
		{Code: "A01.1", Description: "Typhoid Fever", LastUpdated: "2024-06-01 10:30:45"},
		{Code: "B02", Description: "Zoster", LastUpdated: "2024-06-01 10:30:45"},
	}

	require.NoError(t, SaveClean(records, base, nil, testLogger()))

	file, err := os.Open(base + Extension)
	require.NoError(t, err)
	defer file.Close()

	// Reload through the loader: code/description pairs must survive.
	set, err := loader.Parse(file, config.ColumnsConfig{Code: "code", Description: "description"})
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	assert.Equal(t, "A01.1", set.Records[0].Code)
	assert.Equal(t, "Typhoid Fever", set.Records[0].Description)
	assert.Equal(t, "B02", set.Records[1].Code)
}

func TestSaveClean_ColumnOrder(t *testing.T) {
	base := filepath.Join(t.TempDir(), "clean")
	records := []models.CleanRecord{{Code: "A01", Description: "X", LastUpdated: "2024-01-01 00:00:00"}}

	require.NoError(t, SaveClean(records, base, nil, testLogger()))

	raw, err := os.ReadFile(base + Extension)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "code,description,last_updated", lines[0])
}

func TestSaveClean_ExtraColumnsAppended(t *testing.T) {
	base := filepath.Join(t.TempDir(), "clean")
	records := []models.CleanRecord{
		{
			Code: "A01", Description: "X", LastUpdated: "2024-01-01 00:00:00",
			Extra: map[string]string{"Chapter": "I", "Notes": "n"},
		},
	}

	require.NoError(t, SaveClean(records, base, []string{"Chapter", "Notes"}, testLogger()))

	raw, err := os.ReadFile(base + Extension)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "code,description,last_updated,Chapter,Notes", lines[0])
	assert.Equal(t, "A01,X,2024-01-01 00:00:00,I,n", lines[1])
}

func TestSaveClean_EmptySetStillWritesHeader(t *testing.T) {
	base := filepath.Join(t.TempDir(), "clean")

	require.NoError(t, SaveClean(nil, base, nil, testLogger()))

	raw, err := os.ReadFile(base + Extension)
	require.NoError(t, err)
	assert.Equal(t, "code,description,last_updated", strings.TrimSpace(string(raw)))
}
