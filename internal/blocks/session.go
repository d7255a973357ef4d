package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/cmmoran/ai1convert/internal/diag"
	"github.com/cmmoran/ai1convert/internal/model"
	"github.com/cmmoran/ai1convert/internal/rules"
)

// orphanPrefix names bindings synthesized for uses whose declaration could
// not be found. '*' is not a legal identifier character in the legacy
// language, so these never collide with declared names.
const orphanPrefix = "*orphanedArg"

const scopeDeclarationGenus = "argument"

// Session holds the state of one document conversion. It must not be shared
// between documents.
type Session struct {
	graph *model.Graph
	table *rules.Table

	results    map[int]*model.Element
	failed     map[int]bool
	inProgress map[int]bool
	parentOf   map[int]int
	bindings   map[string]string
	nextID     int

	features *model.FeatureSet
	diags    *diag.Collector
}

func NewSession(g *model.Graph, table *rules.Table, diags *diag.Collector) *Session {
	if diags == nil {
		diags = diag.NewCollector("", "")
	}
	return &Session{
		graph:      g,
		table:      table,
		results:    make(map[int]*model.Element),
		failed:     make(map[int]bool),
		inProgress: make(map[int]bool),
		parentOf:   make(map[int]int),
		bindings:   make(map[string]string),
		nextID:     g.MaxID,
		features:   model.NewFeatureSet(),
		diags:      diags,
	}
}

// Features returns the component members referenced by converted nodes.
func (s *Session) Features() *model.FeatureSet { return s.features }

// Result returns the converted element for id, if any.
func (s *Session) Result(id int) (*model.Element, bool) {
	e, ok := s.results[id]
	return e, ok
}

// Binding returns the binding name recorded for a declared label.
func (s *Session) Binding(label string) (string, bool) {
	b, ok := s.bindings[label]
	return b, ok
}

// IsTopLevel reports whether id converted and no other node claimed it.
func (s *Session) IsTopLevel(id int) bool {
	_, converted := s.results[id]
	_, hasParent := s.parentOf[id]
	return converted && !hasParent
}

// Visit converts the node id as a driver entry point. Scope declarations
// only settle their binding.
func (s *Session) Visit(id int) {
	if n := s.graph.Find(id); n != nil && n.Genus == scopeDeclarationGenus {
		s.declaredName(id)
		return
	}
	s.Convert(id)
}

// Convert returns the converted subtree for id, building it on first use.
// A node whose conversion fails is reported once, yields nil and is never
// retried.
func (s *Session) Convert(id int) *model.Element {
	if e, ok := s.results[id]; ok {
		return e
	}
	if s.failed[id] {
		return nil
	}
	n := s.graph.Find(id)
	if n == nil {
		s.fail(id, "", &diag.ConversionError{NodeID: id, Msg: "no block with id " + strconv.Itoa(id)})
		return nil
	}
	if s.inProgress[id] {
		s.fail(id, n.Label, s.errorf(n, "block is its own descendant"))
		return nil
	}

	s.inProgress[id] = true
	e, err := s.build(n)
	delete(s.inProgress, id)
	if err != nil {
		s.fail(id, n.Label, err)
		return nil
	}
	s.results[id] = e
	return e
}

func (s *Session) build(n *model.Node) (e *model.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, errors.Errorf("panic converting %s block: %v", n.Genus, r)
		}
	}()

	d, ok := s.table.Lookup(n.Genus)
	if !ok {
		return nil, s.errorf(n, "unsupported kind %q", n.Genus)
	}
	if n.DeclaredSockets != len(n.Sockets) {
		return nil, s.errorf(n, "declared number of sockets %d does not match actual number of sockets %d",
			n.DeclaredSockets, len(n.Sockets))
	}

	e = model.Block(n.ID, d.Type)
	if n.Collapsed {
		e.Set("collapsed", "true")
	}
	if n.Disabled {
		e.Set("disabled", "true")
	}

	strategy, ok := strategies[d.Strategy]
	if !ok {
		return nil, s.errorf(n, "no conversion routine for strategy %d", d.Strategy)
	}
	if err := strategy(s, n, d, e); err != nil {
		return nil, err
	}

	if c := n.Comment; c != nil {
		comment := model.NewElement("comment",
			"pinned", "false",
			"w", strconv.Itoa(c.Width),
			"h", strconv.Itoa(c.Height))
		comment.Text = RepairString(c.Text)
		e.InsertComment(comment)
	}
	return e, nil
}

func (s *Session) fail(id int, label string, err error) {
	s.failed[id] = true
	var ce *diag.ConversionError
	if errors.As(err, &ce) && ce.NodeID == 0 {
		ce.NodeID = id
		ce.Label = label
	}
	s.diags.System(id, label, err)
}

func (s *Session) errorf(n *model.Node, format string, args ...any) *diag.ConversionError {
	return &diag.ConversionError{NodeID: n.ID, Label: n.Label, Genus: n.Genus, Msg: fmt.Sprintf(format, args...)}
}

// freshID allocates an id for a synthesized node, above every source id.
func (s *Session) freshID() int {
	s.nextID++
	return s.nextID
}

// socketTag maps a connector classification to the child wrapper tag.
func (s *Session) socketTag(n *model.Node, c *model.Connector) (string, error) {
	switch c.Kind {
	case model.ConnectorExpression:
		return "value", nil
	case model.ConnectorStatement:
		return "statement", nil
	default:
		return "", s.errorf(n, "unrecognized connector type %q on socket %q", c.RawType, c.Label)
	}
}

// resolveSocket converts the child plugged into c and attaches it to parent
// under role. An empty socket is not an error.
func (s *Session) resolveSocket(parent *model.Element, n *model.Node, c *model.Connector, role string) error {
	if c.Empty() {
		return nil
	}
	tag, err := s.socketTag(n, c)
	if err != nil {
		return err
	}
	s.parentOf[c.Target] = n.ID
	if child := s.Convert(c.Target); child != nil {
		parent.Append(model.Named(tag, role, child))
	}
	return nil
}

// resolveLabel resolves the socket of n labelled label.
func (s *Session) resolveLabel(parent *model.Element, n *model.Node, label, role string) error {
	c, ok := n.Socket(label)
	if !ok {
		return s.errorf(n, "no socket labelled %q", label)
	}
	return s.resolveSocket(parent, n, c, role)
}

// resolveNext attaches the following statement of n, if any.
func (s *Session) resolveNext(parent *model.Element, n *model.Node) {
	if n.Next == 0 {
		return
	}
	s.parentOf[n.Next] = n.ID
	if next := s.Convert(n.Next); next != nil {
		parent.Append(model.NewElement("next").Append(next))
	}
}

// operand converts a value child without consulting a socket, recording n as
// its parent.
func (s *Session) operand(n *model.Node, id int) *model.Element {
	if id == 0 {
		return nil
	}
	s.parentOf[id] = n.ID
	return s.Convert(id)
}

// declaredName returns the label of the scope declaration id. An unconnected
// declaration is folded into an orphan binding so that getters sharing its
// label still agree on a name. Failures are reported against id and yield
// false.
func (s *Session) declaredName(id int) (string, bool) {
	if s.failed[id] {
		return "", false
	}
	n := s.graph.Find(id)
	if n == nil {
		s.fail(id, "", &diag.ConversionError{NodeID: id, Msg: "no block with id " + strconv.Itoa(id)})
		return "", false
	}
	if n.Genus != scopeDeclarationGenus {
		s.fail(id, n.Label, s.errorf(n, "expected a name declaration, found %q", n.Genus))
		return "", false
	}
	if n.Plug == nil || len(n.Sockets) != 0 {
		s.fail(id, n.Label, s.errorf(n, "unexpected connectors on name declaration"))
		return "", false
	}
	if n.Plug.Empty() {
		if _, bound := s.bindings[n.Label]; !bound {
			s.bindings[n.Label] = s.orphanName()
		}
	}
	return n.Label, true
}

// bind records the binding name for a declared label.
func (s *Session) bind(label, name string) {
	s.bindings[label] = name
}

// lookupBinding returns the binding for label, synthesizing an orphan name on
// first miss.
func (s *Session) lookupBinding(label string) string {
	if name, ok := s.bindings[label]; ok {
		return name
	}
	name := s.orphanName()
	s.bindings[label] = name
	return name
}

// orphanName returns the lowest unused orphan name: *orphanedArg, then
// *orphanedArg2, *orphanedArg3 and so on.
func (s *Session) orphanName() string {
	used := make(map[string]bool)
	for _, v := range s.bindings {
		if strings.HasPrefix(v, orphanPrefix) {
			used[v] = true
		}
	}
	name := orphanPrefix
	for i := 2; used[name]; i++ {
		name = orphanPrefix + strconv.Itoa(i)
	}
	return name
}
