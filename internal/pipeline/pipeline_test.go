package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/icd10pipe/internal/config"
	"github.com/gewnthar/icd10pipe/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, inputContent string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "input", "codes.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(inputPath), 0755))
	require.NoError(t, os.WriteFile(inputPath, []byte(inputContent), 0644))

	return &config.Config{
		Paths: config.PathsConfig{
			InputFile:   inputPath,
			CleanBase:   filepath.Join(dir, "output", "csv", "clean"),
			InvalidBase: filepath.Join(dir, "output", "errors", "invalid"),
		},
		Columns: config.ColumnsConfig{Code: "Code", Description: "Description"},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(raw)), "\n")
}

func TestRun_PartitionsAndNormalizes(t *testing.T) {
	input := strings.Join([]string{
		"Code,Description",
		" a01.1 , typhoid fever ",
		"BAD,broken row",
		"a01.1,duplicate of the first",
	}, "\n")
	cfg := testConfig(t, input)

	require.NoError(t, Run(context.Background(), cfg, testLogger()))

	cleanLines := readLines(t, cfg.Paths.CleanBase+".csv")
	require.Len(t, cleanLines, 2)
	assert.Equal(t, "code,description,last_updated", cleanLines[0])
	assert.True(t, strings.HasPrefix(cleanLines[1], "A01.1,Typhoid Fever,"))

	invalidLines := readLines(t, cfg.Paths.InvalidBase+".csv")
	require.Len(t, invalidLines, 2)
	assert.Equal(t, "Code,Description", invalidLines[0])
	assert.Equal(t, "BAD,broken row", invalidLines[1])
}

func TestRun_CleanRunLeavesNoErrorArtifact(t *testing.T) {
	cfg := testConfig(t, "Code,Description\nA01,Typhoid fever\n")

	require.NoError(t, Run(context.Background(), cfg, testLogger()))

	_, err := os.Stat(cfg.Paths.InvalidBase + ".csv")
	assert.True(t, os.IsNotExist(err))
}

func TestRun_SchemaFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t, "Identifier,Description\nA01,Typhoid fever\n")

	err := Run(context.Background(), cfg, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSchemaInvalid)

	_, statErr := os.Stat(cfg.Paths.CleanBase + ".csv")
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(cfg.Paths.InvalidBase + ".csv")
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingInputFails(t *testing.T) {
	cfg := testConfig(t, "Code,Description\n")
	require.NoError(t, os.Remove(cfg.Paths.InputFile))

	err := Run(context.Background(), cfg, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfigurationMissing)
}

func TestRun_PreservesExtraColumnsWhenConfigured(t *testing.T) {
	input := strings.Join([]string{
		"Code,Chapter,Description",
		"A01,I,typhoid fever",
	}, "\n")
	cfg := testConfig(t, input)
	cfg.Output.PreserveExtraColumns = true

	require.NoError(t, Run(context.Background(), cfg, testLogger()))

	lines := readLines(t, cfg.Paths.CleanBase+".csv")
	require.Len(t, lines, 2)
	assert.Equal(t, "code,description,last_updated,Chapter", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",I"))
}

func TestRun_RenamedColumns(t *testing.T) {
	input := strings.Join([]string{
		"Kode,Omschrijving",
		"A01,typhoid fever",
	}, "\n")
	cfg := testConfig(t, input)
	cfg.Columns = config.ColumnsConfig{Code: "Kode", Description: "Omschrijving"}

	require.NoError(t, Run(context.Background(), cfg, testLogger()))

	lines := readLines(t, cfg.Paths.CleanBase+".csv")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "A01,Typhoid Fever,"))
}
