// Package report reads back the conversion history kept in a report
// manifest.
package report

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gitlab.com/tozd/go/errors"

	"github.com/cmmoran/ai1convert/pkg/manifest"
)

// List returns all runs recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the latest two runs of
// source and returns a textual diff of their outcomes. An empty source
// compares the latest two runs of any project.
func DiffCurrentWithPrevious(manifestPath, source string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	current, previous := m.Latest(source)
	if current == nil || previous == nil {
		if source == "" {
			return "", errors.New("no current/previous runs recorded")
		}
		return "", errors.Errorf("no current/previous runs recorded for %s", source)
	}

	return cmp.Diff(*previous, *current, cmpopts.IgnoreFields(manifest.Run{}, "Time"), cmpopts.EquateEmpty()), nil
}

// Describe renders a one-line summary of a run.
func Describe(r manifest.Run) string {
	status := "not written"
	if r.Written {
		status = "written to " + r.Output
	}
	return fmt.Sprintf("%s %s: %d screens, %d blocks, %d diagnostics, %s",
		r.Time.Format("2006-01-02 15:04:05"), r.Source, len(r.Screens), r.Blocks(), len(r.Diagnostics), status)
}
