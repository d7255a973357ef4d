// Package convert converts a legacy project archive (.zip) into a current
// project archive (.aia).
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gitlab.com/tozd/go/errors"

	"github.com/cmmoran/ai1convert/internal/blocks"
	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/pkg/converter"
	"github.com/cmmoran/ai1convert/pkg/manifest"
)

// infoRecord is the component sidecar of the marker screen.
const infoRecord = `{"YaVersion":"75","Source":"Form","Properties":{"$Name":"Screen1","$Type":"Form","$Version":"14","Uuid":"0","Title":"Screen1","$Components":[]}}`

// Screen is the outcome for one screen of the project.
type Screen struct {
	Name       string
	Blocks     *converter.BlocksResult
	Components *converter.ComponentsResult
}

// Converted reports whether both files of the screen were converted.
func (s *Screen) Converted() bool {
	return s.Blocks != nil && s.Components != nil
}

// Summary describes one archive conversion.
type Summary struct {
	Source      string
	Output      string
	Written     bool
	Files       int
	Converted   int
	InSize      int64
	OutSize     int64
	Screens     []*Screen
	Diagnostics []converter.Diagnostic
}

// ScreensConverted counts screens whose files were both converted.
func (s *Summary) ScreensConverted() int {
	n := 0
	for _, sc := range s.Screens {
		if sc.Converted() {
			n++
		}
	}
	return n
}

// Blocks counts converted blocks across all screens.
func (s *Summary) Blocks() int {
	n := 0
	for _, sc := range s.Screens {
		if sc.Blocks != nil {
			n += sc.Blocks.NumBlocks
		}
	}
	return n
}

func (s *Summary) screen(name string) *Screen {
	for _, sc := range s.Screens {
		if sc.Name == name {
			return sc
		}
	}
	sc := &Screen{Name: name}
	s.Screens = append(s.Screens, sc)
	return sc
}

// Run converts the archive named by c.Opts.InFile. A .aia is written only
// when no project errors were found; otherwise the summary is returned with
// a *diag.ProjectError. When a report file is configured the run is recorded
// in it either way.
func Run(ctx context.Context, c *converter.Converter) (*Summary, error) {
	opts := c.Opts
	sum := &Summary{Source: opts.InFile}
	started := time.Now()

	err := convert(ctx, c, sum)
	if opts.ReportFile != "" {
		if rerr := record(opts.ReportFile, sum, opts.ConverterVersion, started); rerr != nil {
			slog.ErrorContext(ctx, "failed to update conversion report", "report", opts.ReportFile, "error", rerr)
		}
	}
	return sum, err
}

func convert(ctx context.Context, c *converter.Converter, sum *Summary) error {
	opts := c.Opts
	if !hasSuffixFold(opts.InFile, ".zip") {
		err := &diag.ProjectError{Msg: fmt.Sprintf("Legacy project file names must end in .zip, not %s", path.Base(opts.InFile))}
		sum.Diagnostics = append(sum.Diagnostics, converter.Diagnose("", "", err)...)
		return err
	}

	entries, size, err := readArchive(ctx, opts.InFile)
	if err != nil {
		return err
	}
	sum.InSize = size
	slog.InfoContext(ctx, "read legacy project", "file", opts.InFile, "entries", len(entries), "size", humanize.Bytes(uint64(size)))

	entries, unpaired := plan(entries)
	for _, name := range unpaired {
		col := diag.NewCollector(screenName(name), path.Base(name))
		col.Project("Unpaired source file " + path.Base(name))
		sum.Diagnostics = append(sum.Diagnostics, col.Diagnostics()...)
	}
	if len(entries) < 2 || !isScreen1(entries[0].name, ".blk") || !isScreen1(entries[1].name, ".scm") {
		err := &diag.ProjectError{Msg: fmt.Sprintf("%s is not an AI1 project file; it does not have a Screen1. No .aia file was generated.", path.Base(opts.InFile))}
		sum.Diagnostics = append(sum.Diagnostics, converter.Diagnose("", "", err)...)
		return err
	}
	base := dirPrefix(entries[0].name)
	sum.Files = len(entries)

	features := map[string]*converter.FeatureSet{}
	out := make([]*entry, 0, len(entries)+2)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("conversion cancelled: %w", err)
		}
		name := screenName(e.name)
		file := path.Base(e.name)
		switch {
		case hasSuffixFold(e.name, ".blk"):
			res, err := c.Blocks(name, file, string(e.data))
			sum.Diagnostics = append(sum.Diagnostics, res.Diagnostics...)
			if err != nil {
				// the screen keeps an empty block document next to its components
				out = append(out, &entry{name: stem(e.name) + ".bky", data: []byte(res.XML), mod: e.mod})
				slog.WarnContext(ctx, "blocks not converted", "file", e.name, "error", err)
				continue
			}
			if res.Failures != nil {
				slog.ErrorContext(ctx, "block conversion failures", "file", e.name, "error", res.Failures)
			}
			features[stem(e.name)] = res.Features
			sum.screen(name).Blocks = res
			out = append(out, &entry{name: stem(e.name) + ".bky", data: []byte(res.XML), mod: e.mod})
			sum.Converted++
			slog.DebugContext(ctx, "converted blocks", "file", e.name, "blocks", res.NumBlocks, "top_level", len(res.TopLevel))
		case hasSuffixFold(e.name, ".scm"):
			res, err := c.Components(string(e.data), features[stem(e.name)])
			if err != nil {
				sum.Diagnostics = append(sum.Diagnostics, converter.Diagnose(name, file, err)...)
				slog.WarnContext(ctx, "components not converted", "file", e.name, "error", err)
				continue
			}
			sum.screen(name).Components = res
			out = append(out, &entry{name: e.name, data: []byte(res.Text), mod: e.mod})
			sum.Converted++
			for _, u := range res.Upgrades {
				slog.DebugContext(ctx, "upgraded component", "file", e.name, "component", u.Name, "type", u.ComponentType, "from", u.From, "to", u.To)
			}
		default:
			out = append(out, e)
		}
	}
	out = append(out, infoScreen(base+opts.InfoScreen, opts.ConverterVersion, entryTime(entries))...)

	if converter.HasProjectErrors(sum.Diagnostics) {
		return &diag.ProjectError{Msg: "No .aia file was generated."}
	}

	sum.Output = opts.OutPath()
	n, err := writeArchive(ctx, sum.Output, out)
	if err != nil {
		return err
	}
	sum.OutSize = n
	sum.Written = true
	slog.InfoContext(ctx, "wrote converted project",
		"file", sum.Output,
		"size", humanize.Bytes(uint64(n)),
		"screens", fmt.Sprintf("%d/%d", sum.ScreensConverted(), len(sum.Screens)),
		"blocks", sum.Blocks(),
	)
	return nil
}

// plan drops generated code, reports unpaired screen sources and sorts what
// is left into conversion order.
func plan(entries []*entry) ([]*entry, []string) {
	kept := entries[:0:0]
	sources := map[string]int{}
	for _, e := range entries {
		if hasSuffixFold(e.name, ".yail") {
			continue
		}
		if isSource(e.name) {
			sources[stem(e.name)]++
		}
		kept = append(kept, e)
	}
	var unpaired []string
	for _, e := range kept {
		if isSource(e.name) && sources[stem(e.name)] < 2 {
			unpaired = append(unpaired, e.name)
		}
	}
	slices.Sort(unpaired)
	slices.SortStableFunc(kept, func(a, b *entry) int { return compareNames(a.name, b.name) })
	return kept, unpaired
}

func entryTime(entries []*entry) time.Time {
	if len(entries) > 0 && !entries[0].mod.IsZero() {
		return entries[0].mod
	}
	return time.Now()
}

// infoScreen builds the marker screen recording which converter produced
// the project.
func infoScreen(prefix, version string, mod time.Time) []*entry {
	text := model.Block(811, "text").Append(model.Field("TEXT", "Converted by AI1 to AI2 converter version "+version))
	return []*entry{
		{name: prefix + ".scm", data: []byte("#|\n$JSON\n" + infoRecord + "\n|#"), mod: mod},
		{name: prefix + ".bky", data: []byte(blocks.Document(text)), mod: mod},
	}
}

func record(reportFile string, sum *Summary, version string, at time.Time) error {
	m, err := manifest.Load(reportFile)
	if err != nil {
		return err
	}
	m.AddRun(sum.Run(version, at))
	return m.Save(reportFile)
}

// Run converts the summary into a report entry.
func (s *Summary) Run(version string, at time.Time) manifest.Run {
	r := manifest.Run{
		Source:  s.Source,
		Output:  s.Output,
		Version: version,
		Time:    at.UTC().Truncate(time.Second),
		Written: s.Written,
		Files:   s.Files,
	}
	for _, sc := range s.Screens {
		ms := manifest.Screen{Name: sc.Name}
		if sc.Blocks != nil {
			ms.Blocks = sc.Blocks.NumBlocks
			ms.TopLevel = len(sc.Blocks.TopLevel)
			ms.Orphans = len(sc.Blocks.Orphans)
		}
		if sc.Components != nil {
			for _, u := range sc.Components.Upgrades {
				ms.Upgrades = append(ms.Upgrades, fmt.Sprintf("%s (%s) %d -> %d", u.Name, u.ComponentType, u.From, u.To))
			}
		}
		r.Screens = append(r.Screens, ms)
	}
	for _, d := range s.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, manifest.Diagnostic{
			Severity: d.Severity.String(),
			Screen:   d.Screen,
			File:     d.File,
			NodeID:   d.NodeID,
			Label:    d.Label,
			Message:  strings.TrimSpace(d.Message),
		})
	}
	return r
}
