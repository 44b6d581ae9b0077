package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewpulse/internal/logging"
	"github.com/spacesedan/reviewpulse/internal/models"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

type singleSentence struct{}

func (singleSentence) Split(text string) []string { return []string{text} }

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runStreams(t, args...)
	return stdout, err
}

func runStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	SetAnalyzer(sentiment.NewAnalyzer(sentiment.ScorerFunc(func(text string) float64 {
		if strings.Contains(strings.ToLower(text), "great") {
			return 0.5
		}
		return 0
	}), singleSentence{}))

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		analyzeForce = false
		batchColumn = ""
		batchJSON = false
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCmd(t *testing.T) {
	out, err := run(t, "analyze", "Great", "battery", "on", "this", "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Positive")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "Battery")
}

func TestAnalyzeCmdRefusesOffDomain(t *testing.T) {
	out, err := run(t, "analyze", "great pasta tonight")
	require.NoError(t, err)
	assert.Contains(t, out, "--force")
	assert.NotContains(t, out, "Polarity")

	out, err = run(t, "analyze", "--force", "great pasta tonight")
	require.NoError(t, err)
	assert.Contains(t, out, "Polarity")
}

func TestAnalyzeCmdRequiresText(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)

	_, err = run(t, "analyze", "   ")
	assert.ErrorIs(t, err, sentiment.ErrInvalidInput)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatchCmd(t *testing.T) {
	path := writeCSV(t, "id,comment\n1,Great watch\n2,\n3,pasta\n")

	out, err := run(t, "batch", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:         3")
	assert.Contains(t, out, "Text column:  comment")
	assert.Contains(t, out, "Relevant:     1")
}

func TestBatchCmdJSON(t *testing.T) {
	path := writeCSV(t, "id,comment\n1,Great watch\n2,\n3,pasta\n")

	out, err := run(t, "batch", "--json", "--column", "comment", path)
	require.NoError(t, err)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Summary.TotalRows)
	require.Len(t, resp.Results, 3)
	assert.Nil(t, resp.Results[1].Relevant)
}

func TestBatchCmdJSONKeepsLogsOffStdout(t *testing.T) {
	logs := new(bytes.Buffer)
	prev := slog.Default()
	logging.InitLogger(logs, "info")
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := writeCSV(t, "id,comment\n1,Great watch\n")

	stdout, stderr, err := runStreams(t, "batch", "--json", path)
	require.NoError(t, err)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 1, resp.Summary.RelevantCount)
	assert.NotContains(t, stdout, "[BatchAggregator]")
	assert.Empty(t, stderr)
	assert.Contains(t, logs.String(), "[BatchAggregator] Batch analyzed")
}

func TestBatchCmdErrors(t *testing.T) {
	_, err := run(t, "batch", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := writeCSV(t, "a,b\n1,2\n")
	_, err = run(t, "batch", path)
	assert.Error(t, err)
}
