// Package blocks converts a legacy flat block table into the nested block
// document of the current dialect.
package blocks

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

const (
	xhtmlNamespace  = "http://www.w3.org/1999/xhtml"
	yaVersion       = "75"
	languageVersion = "17"
)

// Result is the outcome of converting one block document.
type Result struct {
	XML         string
	NumBlocks   int
	TopLevel    []int
	Orphans     []int
	Features    *model.FeatureSet
	Diagnostics []diag.Diagnostic
	// Failures combines the node-level failures, or is nil.
	Failures error
}

// Convert rewrites the legacy block document text for one screen. Node-level
// failures are reported in the result and do not stop the conversion. An
// empty document yields an empty output document and a *diag.ProjectError;
// a malformed one yields an empty output document and a *diag.ParseError.
func Convert(screen, file, text string, table *rules.Table) (*Result, error) {
	if table == nil {
		table = rules.Default()
	}
	diags := diag.NewCollector(screen, file)
	empty := func() *Result {
		return &Result{
			XML:         model.Pretty(model.NewElement("xml", "xmlns", xhtmlNamespace)),
			Features:    model.NewFeatureSet(),
			Diagnostics: diags.Diagnostics(),
		}
	}

	if strings.TrimSpace(text) == "" {
		err := &diag.ProjectError{Msg: fmt.Sprintf("Legacy file %s is empty!", file)}
		diags.Record(err)
		return empty(), err
	}
	g, err := Load(text)
	if err != nil {
		diags.Record(err)
		return empty(), err
	}

	s := NewSession(g, table, diags)
	sorted := SortDeclarationsFirst(g, table)
	for _, n := range sorted {
		s.Visit(n.ID)
	}

	res := &Result{Features: s.Features()}
	var top []*model.Element
	for _, n := range sorted {
		if !s.IsTopLevel(n.ID) {
			continue
		}
		res.TopLevel = append(res.TopLevel, n.ID)
		if !table.IsDeclaration(n.Genus) {
			res.Orphans = append(res.Orphans, n.ID)
		}
		e, _ := s.Result(n.ID)
		if loc := n.Location; loc != nil && loc.X != "" && loc.Y != "" {
			e.Set("x", loc.X).Set("y", loc.Y)
		}
		top = append(top, e)
	}

	if len(res.Orphans) > 0 {
		diags.Warning(orphanWarning(g, res.Orphans))
	}

	res.XML = Document(top...)
	res.NumBlocks = len(s.results)
	res.Diagnostics = diags.Diagnostics()
	res.Failures = diags.Err()
	return res, nil
}

// Document renders a block document holding the given top-level blocks.
func Document(top ...*model.Element) string {
	doc := model.NewElement("xml", "xmlns", xhtmlNamespace)
	doc.Append(top...)
	doc.Append(model.NewElement("yacodeblocks", "ya-version", yaVersion, "language-version", languageVersion))
	return model.Pretty(doc)
}

func orphanWarning(g *model.Graph, ids []int) string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		label := "UnknownBlock"
		if n := g.Find(id); n != nil {
			label = n.Label
		}
		labels[i] = fmt.Sprintf("%s (id=%d)", label, id)
	}
	noun := "orphaned block assembly"
	if len(ids) != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("The result of conversion has %d %s (for input blocks %s)."+
		" These are top-level expression or statement blocks not connected to any"+
		" declaration blocks (i.e., event handlers, procedure declarations, global variable declarations)."+
		" Orphan blocks are not necessarily an error, but you should check them if your converted"+
		" program does not behave correctly.",
		len(ids), noun, strings.Join(labels, ", "))
}
