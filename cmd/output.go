package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/ai1convert/pkg/action/convert"
	"github.com/cmmoran/ai1convert/pkg/action/report"
	"github.com/cmmoran/ai1convert/pkg/converter"
	"github.com/cmmoran/ai1convert/pkg/manifest"
)

func severityColor(s converter.Severity) *color.Color {
	switch s {
	case converter.SeveritySystem:
		return color.New(color.FgRed)
	case converter.SeverityProject:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func printDiagnostics(w io.Writer, ds []converter.Diagnostic) {
	for _, d := range ds {
		severityColor(d.Severity).Fprintln(w, d.String())
	}
}

// counted renders "1 screen", "2 screens".
func counted(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return strconv.Itoa(n) + " " + noun
}

func printSummary(w io.Writer, sum *convert.Summary) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Screen", "Blocks", "Top level", "Orphans", "Upgrades", "Converted"})
	for _, sc := range sum.Screens {
		blocks, top, orphans, upgrades := "-", "-", "-", "-"
		if sc.Blocks != nil {
			blocks = strconv.Itoa(sc.Blocks.NumBlocks)
			top = strconv.Itoa(len(sc.Blocks.TopLevel))
			orphans = strconv.Itoa(len(sc.Blocks.Orphans))
		}
		if sc.Components != nil {
			upgrades = strconv.Itoa(len(sc.Components.Upgrades))
		}
		tbl.AppendRow(table.Row{sc.Name, blocks, top, orphans, upgrades, sc.Converted()})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d/%s converted", sum.ScreensConverted(), counted(len(sum.Screens), "screen")),
		sum.Blocks(),
	})
	fmt.Fprintln(w, tbl.Render())

	fmt.Fprintf(w, "Converted %d of %s.\n", sum.Converted, counted(sum.Files, "file"))
	if sum.Written {
		color.New(color.FgGreen).Fprintf(w, "Wrote %s\n", sum.Output)
	} else {
		color.New(color.FgRed).Fprintln(w, "No .aia file was generated.")
	}
}

func printRuns(w io.Writer, m *manifest.Manifest) {
	if len(m.Runs) == 0 {
		fmt.Fprintln(w, "No conversions recorded")
		return
	}
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Time", "Source", "Version", "Screens", "Blocks", "Diagnostics", "Written"})
	for _, r := range m.Runs {
		tbl.AppendRow(table.Row{
			r.Time.Format("2006-01-02 15:04:05"), r.Source, r.Version,
			len(r.Screens), r.Blocks(), len(r.Diagnostics), r.Written,
		})
	}
	tbl.AppendFooter(table.Row{counted(len(m.Runs), "run")})
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w, report.Describe(m.Runs[len(m.Runs)-1]))
}

func printRules(w io.Writer, rs []*converter.Rule) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Genus", "Block type", "Role"})
	for _, r := range rs {
		tbl.AppendRow(table.Row{r.Genus, r.Type, r.Role})
	}
	tbl.AppendFooter(table.Row{counted(len(rs), "rule")})
	fmt.Fprintln(w, tbl.Render())
}
