package ir

// Point is an absolute coordinate in the finalized layout's coordinate
// space.
type Point struct {
	X, Y float64
}

// TextBlock is a wrapped, measured label (spec.md §4.2).
type TextBlock struct {
	Lines  []string
	Width  float64
	Height float64
}

// NodeLayout is the placed, sized form of a Node.
type NodeLayout struct {
	ID       string
	X, Y     float64
	Width    float64
	Height   float64
	Label    TextBlock
	Shape    NodeShape
	Style    NodeStyle
	Link     string
	HasLink  bool
	// AnchorSubgraph is the index into Layout.Subgraphs this node stands in
	// for, if it is a subgraph anchor placeholder.
	AnchorSubgraph    int
	HasAnchorSubgraph bool
	// Hidden marks placeholder anchors and span/label dummies: present in
	// NodeLayout for uniform handling by every later pass (spec.md §9), but
	// never rendered.
	Hidden  bool
	Icon    string
	HasIcon bool
}

// Rect returns the node's axis-aligned bounding rectangle.
func (n NodeLayout) Rect() Rectangle {
	return Rectangle{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// EdgeLayout is the routed, labeled form of an Edge.
type EdgeLayout struct {
	From, To string

	Label      *TextBlock
	StartLabel *TextBlock
	EndLabel   *TextBlock

	LabelAnchor         Point
	HasLabelAnchor      bool
	StartLabelAnchor    Point
	HasStartLabelAnchor bool
	EndLabelAnchor      Point
	HasEndLabelAnchor   bool

	Points []Point

	Directed        bool
	ArrowStartKind  ArrowheadKind
	ArrowEndKind    ArrowheadKind
	DecorationStart DecorationKind
	DecorationEnd   DecorationKind

	Style         EdgeLineStyle
	OverrideStyle EdgeStyleOverride
}

// SubgraphLayout is the placed, sized form of a Subgraph.
type SubgraphLayout struct {
	Label      string
	LabelBlock TextBlock
	Nodes      []string
	X, Y       float64
	Width      float64
	Height     float64
	Style      NodeStyle
}

// Rect returns the subgraph's axis-aligned bounding rectangle.
func (s SubgraphLayout) Rect() Rectangle {
	return Rectangle{X: s.X, Y: s.Y, W: s.Width, H: s.Height}
}

// Rectangle is an axis-aligned bounding box used throughout the layout
// engine for obstacle and containment checks.
type Rectangle struct {
	X, Y, W, H float64
}

// Contains reports whether r fully contains other.
func (r Rectangle) Contains(other Rectangle) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.W <= r.X+r.W && other.Y+other.H <= r.Y+r.H
}

// Intersects reports whether r and other overlap with non-zero area.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

// IntersectionArea returns the area of overlap between r and other (0 if
// disjoint).
func (r Rectangle) IntersectionArea(other Rectangle) float64 {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.W, other.X+other.W)
	y1 := min(r.Y+r.H, other.Y+other.H)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	return (x1 - x0) * (y1 - y0)
}

// Inflate returns r expanded by margin on every side.
func (r Rectangle) Inflate(margin float64) Rectangle {
	return Rectangle{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Union returns the smallest rectangle containing both r and other. An
// empty (zero-value) rectangle acts as the identity.
func (r Rectangle) Union(other Rectangle) Rectangle {
	if r == (Rectangle{}) {
		return other
	}
	if other == (Rectangle{}) {
		return r
	}
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.X+r.W, other.X+other.W)
	y1 := max(r.Y+r.H, other.Y+other.H)
	return Rectangle{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Layout is the complete, absolute-coordinate placement of one diagram,
// ready for SVG serialization.
type Layout struct {
	Direction Direction
	Width     float64
	Height    float64
	Nodes     []NodeLayout
	Edges     []EdgeLayout
	Subgraphs []SubgraphLayout
}

// NodeByID returns the NodeLayout with the given id, or false if not found.
func (l *Layout) NodeByID(id string) (*NodeLayout, bool) {
	for i := range l.Nodes {
		if l.Nodes[i].ID == id {
			return &l.Nodes[i], true
		}
	}
	return nil, false
}
