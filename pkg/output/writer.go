// Package output writes the generated payloads and run reports.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/lcalzada-xor/xssdynagen/pkg/models"
)

// TimestampLayout is appended to the output basename
const TimestampLayout = "20060102_150405"

var lineBreaks = strings.NewReplacer("\n", "", "\r", "")

// SanitizeLine strips line breaks and surrounding whitespace so a payload
// occupies exactly one line.
func SanitizeLine(payload string) string {
	return strings.TrimSpace(lineBreaks.Replace(payload))
}

// Collect flattens every payload of results into a sorted set of output
// lines. Lines left empty after sanitizing are dropped.
func Collect(results []*models.URLResult) []string {
	seen := make(map[string]struct{})
	for _, res := range results {
		for _, payloads := range res.Payloads {
			for _, p := range payloads {
				if line := SanitizeLine(p); line != "" {
					seen[line] = struct{}{}
				}
			}
		}
	}
	lines := make([]string, 0, len(seen))
	for line := range seen {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// OutputPath returns <dir>/<basename>_<timestamp>.txt
func OutputPath(dir, basename string, now time.Time) string {
	basename = strings.TrimSuffix(filepath.Base(basename), ".txt")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.txt", basename, now.Format(TimestampLayout)))
}

// WritePayloads writes lines, one per line, to path. The file appears
// atomically: readers see either nothing or the complete list.
func WritePayloads(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return writeAtomic(path, []byte(sb.String()))
}

// WriteReport writes the JSON run report to path
func WriteReport(path string, report *models.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return writeAtomic(path, append(data, '\n'))
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
