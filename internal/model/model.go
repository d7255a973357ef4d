package model

// ConnectorKind classifies a legacy BlockConnector by its connector-type.
type ConnectorKind int

const (
	ConnectorUnknown    ConnectorKind = iota
	ConnectorExpression               // connector-type="poly"
	ConnectorStatement                // connector-type="cmd"
)

func (k ConnectorKind) String() string {
	switch k {
	case ConnectorExpression:
		return "expression"
	case ConnectorStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// ConnectorKindOf maps a raw connector-type attribute to a ConnectorKind.
func ConnectorKindOf(raw string) ConnectorKind {
	switch raw {
	case "poly":
		return ConnectorExpression
	case "cmd":
		return ConnectorStatement
	default:
		return ConnectorUnknown
	}
}

type Connector struct {
	Label      string        // socket label, e.g. "to", "then-do", "arg"
	Kind       ConnectorKind // expression or statement
	RawType    string        // connector-type as written
	Expandable bool          // is-expandable="yes"
	Target     int           // con-block-id, 0 when the socket is empty
}

// Empty reports whether nothing is plugged into the connector.
func (c *Connector) Empty() bool {
	return c == nil || c.Target == 0
}

type Comment struct {
	Text    string
	Width   int
	Height  int
	Visible bool
}

type Location struct {
	X string
	Y string
}

// Stub carries the declaration hint of a BlockStub wrapper.
type Stub struct {
	ParentName  string
	ParentGenus string
}

// Node is one legacy block, unwrapped from its BlockStub when it had one.
type Node struct {
	ID              int
	Genus           string // genus-name, selects the conversion rule
	Label           string
	Plug            *Connector   // the block's own output connector
	Sockets         []*Connector // ordered input connectors
	DeclaredSockets int          // num-sockets as written
	Next            int          // AfterBlockId, 0 when last in a chain
	Comment         *Comment
	Location        *Location
	Collapsed       bool
	Disabled        bool
	Stub            *Stub
}

// Socket returns the first socket with the given label.
func (n *Node) Socket(label string) (*Connector, bool) {
	for _, s := range n.Sockets {
		if s.Label == label {
			return s, true
		}
	}
	return nil, false
}

// ExpressionSockets returns the expression sockets in declaration order.
func (n *Node) ExpressionSockets() []*Connector {
	return n.filterSockets(func(c *Connector) bool { return c.Kind == ConnectorExpression })
}

// ExpandableSockets returns the expandable expression sockets.
func (n *Node) ExpandableSockets() []*Connector {
	return n.filterSockets(func(c *Connector) bool {
		return c.Kind == ConnectorExpression && c.Expandable
	})
}

// FixedSockets returns the non-expandable expression sockets.
func (n *Node) FixedSockets() []*Connector {
	return n.filterSockets(func(c *Connector) bool {
		return c.Kind == ConnectorExpression && !c.Expandable
	})
}

func (n *Node) filterSockets(keep func(*Connector) bool) []*Connector {
	out := make([]*Connector, 0, len(n.Sockets))
	for _, s := range n.Sockets {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Graph is the flat legacy block table of one screen.
type Graph struct {
	Nodes          []*Node           // document order
	ByID           map[int]*Node     // id -> node
	ComponentTypes map[string]string // instance name -> component type
	MaxID          int
}

// Find returns the node for id, or nil.
func (g *Graph) Find(id int) *Node {
	if g == nil {
		return nil
	}
	return g.ByID[id]
}
