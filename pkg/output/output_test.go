package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

func TestCollect_DedupAcrossParameters(t *testing.T) {
	results := []*models.URLResult{
		{URL: "http://a/?x=1&y=2", Payloads: map[string][]string{
			"x": {"<svg onload=alert(1)>", "javascript:alert(1)"},
			"y": {"javascript:alert(1)", "b"},
		}},
		{URL: "http://b/?z=1", Payloads: map[string][]string{
			"z": {"b", "  padded  ", "line\nbreak\r", "\r\n", "   "},
		}},
	}
	assert.Equal(t, []string{
		"<svg onload=alert(1)>",
		"b",
		"javascript:alert(1)",
		"linebreak",
		"padded",
	}, Collect(results))
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 2, 0, time.UTC)
	assert.Equal(t, filepath.Join("payloads", "xss_payloads_gen_20240309_070502.txt"), OutputPath("payloads", "xss_payloads_gen", now))
	assert.Equal(t, filepath.Join("out", "mine_20240309_070502.txt"), OutputPath("out", "some/dir/mine.txt", now))
}

func TestWritePayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "p.txt")
	require.NoError(t, WritePayloads(path, []string{"a", "b"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWritePayloads_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\nlonger content\n"), 0o644))

	require.NoError(t, WritePayloads(path, []string{"new"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	require.NoError(t, WritePayloads(path, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := &models.Report{ScanID: "abc", URLsProcessed: 2, Unique: []string{"x"}}
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded models.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "abc", decoded.ScanID)
	assert.Equal(t, 2, decoded.URLsProcessed)
}

func TestFormat(t *testing.T) {
	n := 42
	p := models.NewParamProfile("http://x/?q=1", "q", map[rune]bool{'a': true, '<': false, ' ': true, '\x00': true}, models.ProbeResults{MaxLength: &n})
	p.WAF = "Sucuri WAF"

	human := Format(p, "human")
	assert.Contains(t, human, "Parameter Profile")
	assert.Contains(t, human, "Sucuri WAF")
	assert.Contains(t, human, "42")
	assert.Contains(t, human, "\\x00")
	assert.Contains(t, human, "spaces")

	assert.True(t, strings.HasPrefix(Format(p, "json"), "{"))
	assert.Equal(t, "http://x/?q=1 q", Format(p, "url"))

	empty := Format(models.EmptyProfile("http://x/?q=1", "q"), "human")
	assert.Contains(t, empty, "not reflected")
}
