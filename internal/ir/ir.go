// Package ir defines the intermediate representation consumed by the layout
// engine: a parsed graph-style diagram (nodes, edges, subgraphs, style
// overrides) together with the absolute-coordinate Layout the engine
// produces from it. Parsing source text into a Graph, resolving a Theme's
// colors and fonts, and serializing a Layout to SVG are the responsibility
// of other packages; ir only carries the data between them.
package ir

// Direction is the main axis along which a graph's ranks grow.
type Direction int

const (
	TopDown Direction = iota
	BottomTop
	LeftRight
	RightLeft
)

func (d Direction) String() string {
	switch d {
	case TopDown:
		return "TD"
	case BottomTop:
		return "BT"
	case LeftRight:
		return "LR"
	case RightLeft:
		return "RL"
	default:
		return "TD"
	}
}

// Horizontal reports whether the main axis runs left-to-right (LR/RL),
// as opposed to top-to-bottom (TD/BT).
func (d Direction) Horizontal() bool {
	return d == LeftRight || d == RightLeft
}

// Reversed reports whether coordinates along the main axis need to be
// mirrored during finalization (spec.md §4.12).
func (d Direction) Reversed() bool {
	return d == RightLeft || d == BottomTop
}

// NodeShape enumerates the visible shape variants a node can render as.
type NodeShape int

const (
	ShapeRectangle NodeShape = iota
	ShapeRoundedRectangle
	ShapeStadium
	ShapeSubroutine
	ShapeCylinder
	ShapeCircle
	ShapeDoubleCircle
	ShapeDiamond
	ShapeHexagon
	ShapeParallelogram
	ShapeParallelogramAlt
	ShapeTrapezoid
	ShapeTrapezoidAlt
	ShapeAsymmetric
	ShapeText
	ShapeForkJoin
	ShapeMindmapDefault
)

// EdgeLineStyle is the stroke treatment of an edge's polyline.
type EdgeLineStyle int

const (
	LineSolid EdgeLineStyle = iota
	LineDotted
	LineThick
)

// ArrowheadKind is the marker drawn at an edge endpoint.
type ArrowheadKind int

const (
	ArrowNone ArrowheadKind = iota
	ArrowNormal
	ArrowCircle
	ArrowCross
)

// DecorationKind is a small glyph rendered at an edge endpoint in addition
// to (or instead of) an arrowhead, e.g. class-diagram cardinality markers.
type DecorationKind int

const (
	DecorationNone DecorationKind = iota
	DecorationDiamond
	DecorationDiamondFilled
	DecorationCircle
)

// NodeStyle carries the independently overridable visual fields for a node
// or subgraph (spec.md §4.3).
type NodeStyle struct {
	Fill            string
	Stroke          string
	TextColor       string
	StrokeWidth     float64
	HasStrokeWidth  bool
	StrokeDasharray string
}

// Merge overlays the non-empty fields of other onto a copy of s and returns
// the result. Only fields explicitly set in other take precedence.
func (s NodeStyle) Merge(other NodeStyle) NodeStyle {
	out := s
	if other.Fill != "" {
		out.Fill = other.Fill
	}
	if other.Stroke != "" {
		out.Stroke = other.Stroke
	}
	if other.TextColor != "" {
		out.TextColor = other.TextColor
	}
	if other.HasStrokeWidth {
		out.StrokeWidth = other.StrokeWidth
		out.HasStrokeWidth = true
	}
	if other.StrokeDasharray != "" {
		out.StrokeDasharray = other.StrokeDasharray
	}
	return out
}

// EdgeStyleOverride carries the independently overridable visual fields for
// an edge (spec.md §4.3: stroke, stroke width, dash-array, line color, label
// color).
type EdgeStyleOverride struct {
	Stroke         string
	StrokeWidth    float64
	HasStrokeWidth bool
	Dasharray      string
	LineColor      string
	LabelColor     string
}

// Merge overlays the non-empty fields of other onto a copy of s.
func (s EdgeStyleOverride) Merge(other EdgeStyleOverride) EdgeStyleOverride {
	out := s
	if other.Stroke != "" {
		out.Stroke = other.Stroke
	}
	if other.HasStrokeWidth {
		out.StrokeWidth = other.StrokeWidth
		out.HasStrokeWidth = true
	}
	if other.Dasharray != "" {
		out.Dasharray = other.Dasharray
	}
	if other.LineColor != "" {
		out.LineColor = other.LineColor
	}
	if other.LabelColor != "" {
		out.LabelColor = other.LabelColor
	}
	return out
}

// Node is a single vertex of the graph IR.
type Node struct {
	ID    string
	Label string
	Shape NodeShape
}

// Edge is a single directed connection between two nodes.
type Edge struct {
	From string
	To   string
	// Label is the center label rendered along the edge, if any.
	Label    string
	HasLabel bool
	// StartLabel/EndLabel are short labels anchored near the respective
	// endpoint (e.g. ER cardinalities).
	StartLabel      string
	EndLabel        string
	Directed        bool
	ArrowStart      ArrowheadKind
	ArrowEnd        ArrowheadKind
	DecorationStart DecorationKind
	DecorationEnd   DecorationKind
	Style           EdgeLineStyle
}

// Subgraph is a named grouping of nodes rendered as a labeled bounding box.
type Subgraph struct {
	// AnchorID is the id of the node standing in for this subgraph during
	// top-level layout, if the subgraph declares one (spec.md §4.8).
	AnchorID string
	HasAnchor bool
	Label     string
	Nodes     []string
	// Direction overrides the graph's direction for members of this
	// subgraph, if set.
	Direction    Direction
	HasDirection bool
	Style        NodeStyle
	HasStyle     bool
}

// Graph is the parsed intermediate representation of a single diagram.
type Graph struct {
	Direction Direction

	// nodeOrder preserves declaration order; nodes/declIndex are keyed by id
	// for O(1) lookup. Ranking and ordering both depend on declaration order
	// for deterministic tie-breaking (spec.md §4.4, §4.6, §9).
	nodeOrder []string
	declIndex map[string]int
	nodes     map[string]*Node

	Edges     []Edge
	Subgraphs []Subgraph

	ClassDefs    map[string]NodeStyle
	NodeClasses  map[string][]string // node id -> ordered list of class names
	NodeStyles   map[string]NodeStyle
	SubgraphStyles map[string]NodeStyle

	EdgeStyles       map[int]EdgeStyleOverride // edge index -> override
	DefaultEdgeStyle EdgeStyleOverride
	HasDefaultEdgeStyle bool
}

// NewGraph returns an empty graph with the given main-axis direction.
func NewGraph(direction Direction) *Graph {
	return &Graph{
		Direction:      direction,
		nodes:          make(map[string]*Node),
		declIndex:      make(map[string]int),
		ClassDefs:      make(map[string]NodeStyle),
		NodeClasses:    make(map[string][]string),
		NodeStyles:     make(map[string]NodeStyle),
		SubgraphStyles: make(map[string]NodeStyle),
		EdgeStyles:     make(map[int]EdgeStyleOverride),
	}
}

// EnsureNode returns the node with the given id, creating it (with id as its
// default label and a rectangle shape) if it does not yet exist. The first
// call for a given id fixes that node's declaration-order index.
func (g *Graph) EnsureNode(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Label: id, Shape: ShapeRectangle}
	g.nodes[id] = n
	g.declIndex[id] = len(g.nodeOrder)
	g.nodeOrder = append(g.nodeOrder, id)
	return n
}

// Node returns the node with the given id, or nil if it doesn't exist.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeOrder returns node ids in declaration order.
func (g *Graph) NodeOrder() []string {
	return g.nodeOrder
}

// NodeCount returns the number of distinct nodes declared in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodeOrder)
}

// DeclarationIndex returns the index at which id was first declared, and
// whether id is a known node.
func (g *Graph) DeclarationIndex(id string) (int, bool) {
	i, ok := g.declIndex[id]
	return i, ok
}

// AddEdge appends an edge and returns its index (used as the key into
// EdgeStyles).
func (g *Graph) AddEdge(e Edge) int {
	g.Edges = append(g.Edges, e)
	return len(g.Edges) - 1
}
