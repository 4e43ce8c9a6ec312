// Package export writes assembled reports to disk. Export failures are
// surfaced to the caller as warnings attached to the screening result; they
// never fail the run that produced the report.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/model"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Filename builds the deterministic output name for a report:
// <subject-slug>_<UTC timestamp>.<ext>. Two exports of the same report
// produce the same name.
func Filename(r *model.Report, format Format) string {
	slug := r.Subject.Slug()
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("%s_%s.%s", slug, r.Timestamp.UTC().Format("20060102T150405Z"), format)
}

// WriteJSON writes the report as pretty-printed JSON with two-space
// indentation and stable key order, and returns the path written.
func WriteJSON(r *model.Report, dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "export: encode report")
	}
	data = append(data, '\n')

	path := filepath.Join(dir, Filename(r, FormatJSON))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrap(err, "export: write json")
	}
	return path, nil
}

// Write dispatches on format and returns the path written.
func Write(r *model.Report, dir string, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return WriteJSON(r, dir)
	case FormatXLSX:
		return WriteXLSX(r, dir)
	default:
		return "", eris.Errorf("export: unsupported format %q", format)
	}
}

// Result records the outcome of a best-effort export attempt.
type Result struct {
	Path       string
	Format     Format
	Err        error
	FinishedAt time.Time
}

// Attempt runs an export and captures failure as a value.
func Attempt(r *model.Report, dir string, format Format) Result {
	path, err := Write(r, dir, format)
	return Result{Path: path, Format: format, Err: err, FinishedAt: time.Now().UTC()}
}
