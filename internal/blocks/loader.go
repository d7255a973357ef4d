package blocks

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
)

type xmlEmpty struct{}

type xmlDocument struct {
	XMLName xml.Name  `xml:"YACodeBlocks"`
	Pages   *xmlPages `xml:"Pages"`
	Maps    *xmlMaps  `xml:"YoungAndroidMaps"`
}

type xmlPages struct {
	Page *xmlPage `xml:"Page"`
}

type xmlPage struct {
	PageBlocks *xmlPageBlocks `xml:"PageBlocks"`
}

type xmlPageBlocks struct {
	Entries []xmlEntry `xml:",any"`
}

type xmlMaps struct {
	UuidMap *xmlUuidMap `xml:"YoungAndroidUuidMap"`
}

type xmlUuidMap struct {
	Entries []xmlUuidEntry `xml:"YoungAndroidUuidEntry"`
}

type xmlUuidEntry struct {
	ComponentID    string `xml:"component-id,attr"`
	ComponentGenus string `xml:"component-genus,attr"`
}

// xmlEntry is either a Block or a BlockStub wrapping one.
type xmlEntry struct {
	XMLName xml.Name
	xmlBlock

	StubParentName  string    `xml:"StubParentName"`
	StubParentGenus string    `xml:"StubParentGenus"`
	Inner           *xmlBlock `xml:"Block"`
}

type xmlBlock struct {
	ID          string       `xml:"id,attr"`
	Genus       string       `xml:"genus-name,attr"`
	Label       string       `xml:"Label"`
	Location    *xmlLocation `xml:"Location"`
	Plug        *xmlPlug     `xml:"Plug"`
	Sockets     *xmlSockets  `xml:"Sockets"`
	After       string       `xml:"AfterBlockId"`
	Comment     *xmlComment  `xml:"Comment"`
	Collapsed   *xmlEmpty    `xml:"Collapsed"`
	Deactivated *xmlEmpty    `xml:"Deactivated"`
}

type xmlLocation struct {
	X string `xml:"X"`
	Y string `xml:"Y"`
}

type xmlPlug struct {
	Connectors []xmlConnector `xml:"BlockConnector"`
}

type xmlSockets struct {
	NumSockets string         `xml:"num-sockets,attr"`
	Connectors []xmlConnector `xml:"BlockConnector"`
}

type xmlConnector struct {
	Kind       string `xml:"connector-kind,attr"`
	Type       string `xml:"connector-type,attr"`
	InitType   string `xml:"init-type,attr"`
	Label      string `xml:"label,attr"`
	Expandable string `xml:"is-expandable,attr"`
	Position   string `xml:"position-type,attr"`
	Target     string `xml:"con-block-id,attr"`
}

type xmlComment struct {
	Text     string       `xml:"Text"`
	Location *xmlLocation `xml:"Location"`
	BoxSize  *struct {
		Width  string `xml:"Width"`
		Height string `xml:"Height"`
	} `xml:"BoxSize"`
	Visible *xmlEmpty `xml:"Visible"`
}

const defaultCommentSize = 50

// Load parses a legacy block document into a graph. Structural problems are
// reported as *diag.ParseError.
func Load(text string) (*model.Graph, error) {
	if strings.TrimSpace(text) == "" {
		return nil, diag.NewParseError("document is empty")
	}
	var doc xmlDocument
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &diag.ParseError{Msg: "malformed block document", Err: err}
	}
	switch {
	case doc.Pages == nil:
		return nil, diag.NewParseError("missing Pages section")
	case doc.Pages.Page == nil:
		return nil, diag.NewParseError("missing Page section")
	case doc.Pages.Page.PageBlocks == nil:
		return nil, diag.NewParseError("missing PageBlocks section")
	case doc.Maps == nil:
		return nil, diag.NewParseError("missing YoungAndroidMaps section")
	case doc.Maps.UuidMap == nil:
		return nil, diag.NewParseError("missing YoungAndroidUuidMap section")
	}

	g := &model.Graph{
		ByID:           make(map[int]*model.Node),
		ComponentTypes: make(map[string]string),
	}
	for _, e := range doc.Maps.UuidMap.Entries {
		g.ComponentTypes[e.ComponentID] = e.ComponentGenus
	}

	for i := range doc.Pages.Page.PageBlocks.Entries {
		entry := &doc.Pages.Page.PageBlocks.Entries[i]
		var (
			raw  *xmlBlock
			stub *model.Stub
		)
		switch entry.XMLName.Local {
		case "Block":
			raw = &entry.xmlBlock
		case "BlockStub":
			if entry.Inner == nil {
				return nil, diag.NewParseError("block stub %q has no Block", entry.StubParentName)
			}
			raw = entry.Inner
			stub = &model.Stub{ParentName: entry.StubParentName, ParentGenus: entry.StubParentGenus}
		default:
			return nil, diag.NewParseError("unexpected element <%s> in PageBlocks", entry.XMLName.Local)
		}

		n, err := newNode(raw)
		if err != nil {
			return nil, err
		}
		n.Stub = stub
		if _, dup := g.ByID[n.ID]; dup {
			return nil, diag.NewParseError("duplicate block id %d", n.ID)
		}
		g.ByID[n.ID] = n
		g.Nodes = append(g.Nodes, n)
		if n.ID > g.MaxID {
			g.MaxID = n.ID
		}
	}
	return g, nil
}

func newNode(b *xmlBlock) (*model.Node, error) {
	id, err := parseID(b.ID, "block id")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, diag.NewParseError("block of genus %q has no id", b.Genus)
	}
	n := &model.Node{
		ID:        id,
		Genus:     b.Genus,
		Label:     b.Label,
		Collapsed: b.Collapsed != nil,
		Disabled:  b.Deactivated != nil,
	}
	if n.Next, err = parseID(b.After, "AfterBlockId"); err != nil {
		return nil, err
	}
	if b.Location != nil {
		n.Location = &model.Location{X: strings.TrimSpace(b.Location.X), Y: strings.TrimSpace(b.Location.Y)}
	}
	if b.Plug != nil && len(b.Plug.Connectors) > 0 {
		if n.Plug, err = newConnector(&b.Plug.Connectors[0]); err != nil {
			return nil, err
		}
	}
	if b.Sockets != nil {
		n.DeclaredSockets = -1
		if v, convErr := strconv.Atoi(strings.TrimSpace(b.Sockets.NumSockets)); convErr == nil {
			n.DeclaredSockets = v
		}
		for i := range b.Sockets.Connectors {
			c, err := newConnector(&b.Sockets.Connectors[i])
			if err != nil {
				return nil, err
			}
			n.Sockets = append(n.Sockets, c)
		}
	}
	if b.Comment != nil {
		n.Comment = &model.Comment{
			Text:    b.Comment.Text,
			Width:   defaultCommentSize,
			Height:  defaultCommentSize,
			Visible: b.Comment.Visible != nil,
		}
		if b.Comment.BoxSize != nil {
			n.Comment.Width = sizeOr(b.Comment.BoxSize.Width, defaultCommentSize)
			n.Comment.Height = sizeOr(b.Comment.BoxSize.Height, defaultCommentSize)
		}
	}
	return n, nil
}

func newConnector(c *xmlConnector) (*model.Connector, error) {
	target, err := parseID(c.Target, "con-block-id")
	if err != nil {
		return nil, err
	}
	return &model.Connector{
		Label:      c.Label,
		Kind:       model.ConnectorKindOf(c.Type),
		RawType:    c.Type,
		Expandable: c.Expandable == "yes",
		Target:     target,
	}, nil
}

// parseID reads an optional block id; an absent id is 0.
func parseID(s, what string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, diag.NewParseError("%s %q is not a block id", what, s)
	}
	return v, nil
}

func sizeOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	// sizes are sometimes written as floats
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
