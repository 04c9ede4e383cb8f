package ir

import (
	"encoding/json"
	"fmt"
	"io"
)

// GraphDoc is the JSON-serializable form of a Graph (spec.md §3's data
// model). Parsing the bespoke mermaid-like source text into a Graph is an
// external collaborator's job and out of scope (spec.md §1 Non-goals);
// GraphDoc is the plain-data wire format cmd/layoutctl and tests use to
// hand a pre-parsed diagram to the layout engine.
type GraphDoc struct {
	Direction string         `json:"direction"`
	Nodes     []NodeDoc      `json:"nodes"`
	Edges     []EdgeDoc      `json:"edges"`
	Subgraphs []SubgraphDoc  `json:"subgraphs,omitempty"`
	ClassDefs map[string]any `json:"classDefs,omitempty"`
}

type NodeDoc struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Shape string `json:"shape,omitempty"`
}

type EdgeDoc struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Label           string `json:"label,omitempty"`
	StartLabel      string `json:"startLabel,omitempty"`
	EndLabel        string `json:"endLabel,omitempty"`
	Directed        bool   `json:"directed,omitempty"`
	Style           string `json:"style,omitempty"`
	ArrowStart      string `json:"arrowStart,omitempty"`
	ArrowEnd        string `json:"arrowEnd,omitempty"`
	DecorationStart string `json:"decorationStart,omitempty"`
	DecorationEnd   string `json:"decorationEnd,omitempty"`
}

type SubgraphDoc struct {
	AnchorID  string   `json:"anchorId,omitempty"`
	Label     string   `json:"label,omitempty"`
	Nodes     []string `json:"nodes"`
	Direction string   `json:"direction,omitempty"`
}

var directionNames = map[string]Direction{
	"TD": TopDown, "TB": TopDown,
	"BT": BottomTop,
	"LR": LeftRight,
	"RL": RightLeft,
}

var shapeNames = map[string]NodeShape{
	"rectangle":        ShapeRectangle,
	"roundedRectangle": ShapeRoundedRectangle,
	"stadium":          ShapeStadium,
	"subroutine":       ShapeSubroutine,
	"cylinder":         ShapeCylinder,
	"circle":           ShapeCircle,
	"doubleCircle":     ShapeDoubleCircle,
	"diamond":          ShapeDiamond,
	"hexagon":          ShapeHexagon,
	"parallelogram":    ShapeParallelogram,
	"parallelogramAlt": ShapeParallelogramAlt,
	"trapezoid":        ShapeTrapezoid,
	"trapezoidAlt":     ShapeTrapezoidAlt,
	"asymmetric":       ShapeAsymmetric,
	"text":             ShapeText,
	"forkJoin":         ShapeForkJoin,
	"mindmapDefault":   ShapeMindmapDefault,
}

var lineStyleNames = map[string]EdgeLineStyle{
	"solid": LineSolid, "dotted": LineDotted, "thick": LineThick,
}

var arrowheadNames = map[string]ArrowheadKind{
	"none": ArrowNone, "normal": ArrowNormal, "circle": ArrowCircle, "cross": ArrowCross,
}

var decorationNames = map[string]DecorationKind{
	"none": DecorationNone, "diamond": DecorationDiamond,
	"diamondFilled": DecorationDiamondFilled, "circle": DecorationCircle,
}

// DecodeGraph reads a GraphDoc from r and builds the equivalent Graph,
// going through the same EnsureNode/AddEdge constructors a real parser
// would use, so declaration order is tracked correctly.
func DecodeGraph(r io.Reader) (*Graph, error) {
	var doc GraphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	return doc.ToGraph()
}

// ToGraph builds a Graph from a decoded GraphDoc.
func (doc *GraphDoc) ToGraph() (*Graph, error) {
	dir, ok := directionNames[doc.Direction]
	if doc.Direction != "" && !ok {
		return nil, fmt.Errorf("unknown direction %q", doc.Direction)
	}
	g := NewGraph(dir)

	for _, nd := range doc.Nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("node with empty id")
		}
		n := g.EnsureNode(nd.ID)
		if nd.Label != "" {
			n.Label = nd.Label
		}
		if nd.Shape != "" {
			shape, ok := shapeNames[nd.Shape]
			if !ok {
				return nil, fmt.Errorf("node %q: unknown shape %q", nd.ID, nd.Shape)
			}
			n.Shape = shape
		}
	}

	for _, ed := range doc.Edges {
		g.EnsureNode(ed.From)
		g.EnsureNode(ed.To)
		e := Edge{
			From: ed.From, To: ed.To,
			Label: ed.Label, HasLabel: ed.Label != "",
			StartLabel: ed.StartLabel, EndLabel: ed.EndLabel,
			Directed: ed.Directed,
		}
		if ed.Style != "" {
			style, ok := lineStyleNames[ed.Style]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown style %q", ed.From, ed.To, ed.Style)
			}
			e.Style = style
		}
		if ed.ArrowStart != "" {
			kind, ok := arrowheadNames[ed.ArrowStart]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown arrowStart %q", ed.From, ed.To, ed.ArrowStart)
			}
			e.ArrowStart = kind
		}
		if ed.ArrowEnd != "" {
			kind, ok := arrowheadNames[ed.ArrowEnd]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown arrowEnd %q", ed.From, ed.To, ed.ArrowEnd)
			}
			e.ArrowEnd = kind
		}
		if ed.DecorationStart != "" {
			kind, ok := decorationNames[ed.DecorationStart]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown decorationStart %q", ed.From, ed.To, ed.DecorationStart)
			}
			e.DecorationStart = kind
		}
		if ed.DecorationEnd != "" {
			kind, ok := decorationNames[ed.DecorationEnd]
			if !ok {
				return nil, fmt.Errorf("edge %s->%s: unknown decorationEnd %q", ed.From, ed.To, ed.DecorationEnd)
			}
			e.DecorationEnd = kind
		}
		g.AddEdge(e)
	}

	for _, sd := range doc.Subgraphs {
		sg := Subgraph{
			AnchorID: sd.AnchorID, HasAnchor: sd.AnchorID != "",
			Label: sd.Label, Nodes: sd.Nodes,
		}
		if sd.Direction != "" {
			dir, ok := directionNames[sd.Direction]
			if !ok {
				return nil, fmt.Errorf("subgraph %q: unknown direction %q", sd.Label, sd.Direction)
			}
			sg.Direction, sg.HasDirection = dir, true
		}
		g.Subgraphs = append(g.Subgraphs, sg)
	}

	return g, nil
}
