// Package svgrender serializes a computed ir.Layout to a self-contained
// SVG document (spec.md §6): node shapes, edge polylines with
// arrowheads/decorations, subgraph boxes, and every label, styled from a
// resolved theme.Theme and per-element ir.NodeStyle/ir.EdgeStyleOverride.
package svgrender

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/dnswlt/layoutctl/internal/ir"
	"github.com/dnswlt/layoutctl/internal/theme"
)

// Render produces a complete SVG document for l, themed with th.
func Render(l *ir.Layout, th theme.Theme) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g" font-family="%s">`,
		l.Width, l.Height, l.Width, l.Height, html.EscapeString(th.FontFamily))
	buf.WriteString("\n")

	writeDefs(&buf, th)

	buf.WriteString(`<g class="subgraphs">` + "\n")
	for i, sg := range l.Subgraphs {
		writeSubgraph(&buf, i, sg, th)
	}
	buf.WriteString("</g>\n")

	buf.WriteString(`<g class="edges">` + "\n")
	for i, e := range l.Edges {
		writeEdge(&buf, i, e, th)
	}
	buf.WriteString("</g>\n")

	buf.WriteString(`<g class="nodes">` + "\n")
	for _, n := range l.Nodes {
		writeNode(&buf, n, th)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("</svg>\n")

	return PostprocessClassPrefixes(buf.Bytes())
}

func writeDefs(buf *bytes.Buffer, th theme.Theme) {
	buf.WriteString("<defs>\n")
	fmt.Fprintf(buf, `<marker id="arrow-normal" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n", css(th.LineColor))
	fmt.Fprintf(buf, `<marker id="arrow-circle" viewBox="0 0 10 10" refX="5" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><circle cx="5" cy="5" r="4" fill="none" stroke="%s"/></marker>`+"\n", css(th.LineColor))
	fmt.Fprintf(buf, `<marker id="arrow-cross" viewBox="0 0 10 10" refX="5" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M1,1 L9,9 M9,1 L1,9" stroke="%s"/></marker>`+"\n", css(th.LineColor))
	buf.WriteString("</defs>\n")
}

func css(c theme.ColorString) string {
	if c == "" {
		return "none"
	}
	return string(c)
}

func writeSubgraph(buf *bytes.Buffer, i int, sg ir.SubgraphLayout, th theme.Theme) {
	fill := th.Section(i)
	stroke := th.LineColor
	if sg.Style.Fill != "" {
		fill = theme.ColorString(sg.Style.Fill)
	}
	if sg.Style.Stroke != "" {
		stroke = theme.ColorString(sg.Style.Stroke)
	}
	fmt.Fprintf(buf, `<g id="subgraph-%d">`+"\n", i)
	fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" fill="%s" fill-opacity="0.2" stroke="%s"/>`+"\n",
		sg.X, sg.Y, sg.Width, sg.Height, css(fill), css(stroke))
	if sg.Label != "" {
		writeTextBlock(buf, sg.X+6, sg.Y+th.BaseFontSize, sg.LabelBlock, th, PrefixNodeLabelEm)
	}
	buf.WriteString("</g>\n")
}

func writeNode(buf *bytes.Buffer, n ir.NodeLayout, th theme.Theme) {
	if n.Hidden {
		return
	}
	fill := th.Primary
	stroke := th.LineColor
	textColor := th.PrimaryTextColor
	if n.Style.Fill != "" {
		fill = theme.ColorString(n.Style.Fill)
	}
	if n.Style.Stroke != "" {
		stroke = theme.ColorString(n.Style.Stroke)
	}
	if n.Style.TextColor != "" {
		textColor = theme.ColorString(n.Style.TextColor)
	}
	strokeWidth := 1.0
	if n.Style.HasStrokeWidth {
		strokeWidth = n.Style.StrokeWidth
	}
	dash := ""
	if n.Style.StrokeDasharray != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, n.Style.StrokeDasharray)
	}

	fmt.Fprintf(buf, `<g id="node-%s" class="node">`+"\n", xmlEscapeAttr(n.ID))
	writeShape(buf, n, css(fill), css(stroke), strokeWidth, dash)

	cx := n.X + n.Width/2
	cy := n.Y + n.Height/2 - float64(len(n.Label.Lines)-1)*th.BaseFontSize*0.6
	buf.WriteString(fmt.Sprintf(`<g fill="%s">`+"\n", css(textColor)))
	writeTextBlockCentered(buf, cx, cy, n.Label, th)
	buf.WriteString("</g>\n")

	buf.WriteString("</g>\n")
}

// writeShape emits the geometry for n's shape, centered on its rectangle.
// Shapes without a dedicated rendering (spec.md treats sequence/journey/
// mindmap-style bespoke diagrams as out of scope beyond shared
// infrastructure) fall back to the rounded-rectangle outline.
func writeShape(buf *bytes.Buffer, n ir.NodeLayout, fill, stroke string, strokeWidth float64, dash string) {
	x, y, w, h := n.X, n.Y, n.Width, n.Height
	cx, cy := x+w/2, y+h/2
	attrs := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%g"%s`, fill, stroke, strokeWidth, dash)

	switch n.Shape {
	case ir.ShapeCircle:
		fmt.Fprintf(buf, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" %s/>`+"\n", cx, cy, w/2, h/2, attrs)
	case ir.ShapeDoubleCircle:
		fmt.Fprintf(buf, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" %s/>`+"\n", cx, cy, w/2, h/2, attrs)
		fmt.Fprintf(buf, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g" fill="none" stroke="%s" stroke-width="%g"/>`+"\n",
			cx, cy, w/2-4, h/2-4, stroke, strokeWidth)
	case ir.ShapeDiamond:
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			cx, y, x+w, cy, cx, y+h, x, cy, attrs)
	case ir.ShapeHexagon:
		inset := w * 0.15
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x+inset, y, x+w-inset, y, x+w, cy, x+w-inset, y+h, x+inset, y+h, x, cy, attrs)
	case ir.ShapeParallelogram:
		skew := w * 0.2
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x+skew, y, x+w, y, x+w-skew, y+h, x, y+h, attrs)
	case ir.ShapeParallelogramAlt:
		skew := w * 0.2
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x, y, x+w-skew, y, x+w, y+h, x+skew, y+h, attrs)
	case ir.ShapeTrapezoid:
		inset := w * 0.2
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x+inset, y, x+w-inset, y, x+w, y+h, x, y+h, attrs)
	case ir.ShapeTrapezoidAlt:
		inset := w * 0.2
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x, y, x+w, y, x+w-inset, y+h, x+inset, y+h, attrs)
	case ir.ShapeAsymmetric:
		notch := w * 0.15
		fmt.Fprintf(buf, `<polygon points="%g,%g %g,%g %g,%g %g,%g %g,%g" %s/>`+"\n",
			x, y, x+w-notch, y, x+w, cy, x+w-notch, y+h, x, y+h, attrs)
	case ir.ShapeStadium:
		fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" rx="%g" ry="%g" %s/>`+"\n", x, y, w, h, h/2, h/2, attrs)
	case ir.ShapeRoundedRectangle:
		fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" rx="8" ry="8" %s/>`+"\n", x, y, w, h, attrs)
	case ir.ShapeSubroutine:
		fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" %s/>`+"\n", x, y, w, h, attrs)
		fmt.Fprintf(buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s"/>`+"\n", x+6, y, x+6, y+h, stroke)
		fmt.Fprintf(buf, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s"/>`+"\n", x+w-6, y, x+w-6, y+h, stroke)
	case ir.ShapeCylinder:
		ry := h * 0.12
		fmt.Fprintf(buf, `<path d="M%g,%g a%g,%g 0 0,0 %g,0 v%g a%g,%g 0 0,1 -%g,0 z" %s/>`+"\n",
			x, y+ry, w/2, ry, w, h-2*ry, w/2, ry, w, attrs)
	case ir.ShapeForkJoin:
		fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" fill="%s" stroke="%s"/>`+"\n", x, y, w, h, stroke, stroke)
	case ir.ShapeText, ir.ShapeMindmapDefault:
		// No visible border, text only.
	default: // ShapeRectangle and anything unhandled
		fmt.Fprintf(buf, `<rect x="%g" y="%g" width="%g" height="%g" %s/>`+"\n", x, y, w, h, attrs)
	}
}

func writeEdge(buf *bytes.Buffer, i int, e ir.EdgeLayout, th theme.Theme) {
	if len(e.Points) < 2 {
		return
	}
	stroke := th.LineColor
	strokeWidth := 1.0
	dash := ""
	if e.Style == ir.LineDotted {
		dash = ` stroke-dasharray="4,3"`
	}
	if e.Style == ir.LineThick {
		strokeWidth = 3
	}
	if e.OverrideStyle.Stroke != "" {
		stroke = theme.ColorString(e.OverrideStyle.Stroke)
	} else if e.OverrideStyle.LineColor != "" {
		stroke = theme.ColorString(e.OverrideStyle.LineColor)
	}
	if e.OverrideStyle.HasStrokeWidth {
		strokeWidth = e.OverrideStyle.StrokeWidth
	}
	if e.OverrideStyle.Dasharray != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, e.OverrideStyle.Dasharray)
	}

	var path strings.Builder
	fmt.Fprintf(&path, "M%g,%g", e.Points[0].X, e.Points[0].Y)
	for _, p := range e.Points[1:] {
		fmt.Fprintf(&path, " L%g,%g", p.X, p.Y)
	}

	markerEnd := markerAttr("marker-end", e.ArrowEndKind)
	markerStart := markerAttr("marker-start", e.ArrowStartKind)

	fmt.Fprintf(buf, `<g id="edge-%d" class="edge">`+"\n", i)
	fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="%g"%s%s%s/>`+"\n",
		path.String(), css(stroke), strokeWidth, dash, markerStart, markerEnd)

	labelColor := th.TextColor
	if e.OverrideStyle.LabelColor != "" {
		labelColor = theme.ColorString(e.OverrideStyle.LabelColor)
	}
	if e.Label != nil && e.HasLabelAnchor {
		fmt.Fprintf(buf, `<g fill="%s">`+"\n", css(labelColor))
		writeTextBlock(buf, e.LabelAnchor.X, e.LabelAnchor.Y, *e.Label, th, "")
		buf.WriteString("</g>\n")
	}
	if e.StartLabel != nil && e.HasStartLabelAnchor {
		writeSmallLabel(buf, e.StartLabelAnchor, strings.Join(e.StartLabel.Lines, " "), th)
	}
	if e.EndLabel != nil && e.HasEndLabelAnchor {
		writeSmallLabel(buf, e.EndLabelAnchor, strings.Join(e.EndLabel.Lines, " "), th)
	}
	buf.WriteString("</g>\n")
}

func writeSmallLabel(buf *bytes.Buffer, p ir.Point, text string, th theme.Theme) {
	fmt.Fprintf(buf, `<text x="%g" y="%g" font-size="%g" class="edge-endpoint-label">%s</text>`+"\n",
		p.X, p.Y, th.BaseFontSize*0.8, html.EscapeString(text))
}

func markerAttr(attr string, k ir.ArrowheadKind) string {
	switch k {
	case ir.ArrowNormal:
		return fmt.Sprintf(` %s="url(#arrow-normal)"`, attr)
	case ir.ArrowCircle:
		return fmt.Sprintf(` %s="url(#arrow-circle)"`, attr)
	case ir.ArrowCross:
		return fmt.Sprintf(` %s="url(#arrow-cross)"`, attr)
	default:
		return ""
	}
}

// writeTextBlock emits b's lines as a top-left-anchored <text>/<tspan>
// stack. forcePrefix, if non-empty, is prepended to every line before
// PostprocessClassPrefixes runs, so the whole block gets one CSS class
// (used for subgraph titles).
func writeTextBlock(buf *bytes.Buffer, x, y float64, b ir.TextBlock, th theme.Theme, forcePrefix string) {
	if len(b.Lines) == 0 {
		return
	}
	fmt.Fprintf(buf, `<text x="%g" y="%g" font-size="%g" text-anchor="start">`, x, y, th.BaseFontSize)
	for i, line := range b.Lines {
		dy := "0"
		if i > 0 {
			dy = fmt.Sprintf("%g", th.BaseFontSize*1.2)
		}
		fmt.Fprintf(buf, `<tspan x="%g" dy="%s">%s%s</tspan>`, x, dy, forcePrefix, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}

// writeTextBlockCentered emits b's lines centered on (cx, cy), the
// convention node labels use.
func writeTextBlockCentered(buf *bytes.Buffer, cx, cy float64, b ir.TextBlock, th theme.Theme) {
	if len(b.Lines) == 0 {
		return
	}
	fmt.Fprintf(buf, `<text x="%g" y="%g" font-size="%g" text-anchor="middle">`, cx, cy, th.BaseFontSize)
	for i, line := range b.Lines {
		dy := "0"
		if i > 0 {
			dy = fmt.Sprintf("%g", th.BaseFontSize*1.2)
		}
		fmt.Fprintf(buf, `<tspan x="%g" dy="%s">%s</tspan>`, cx, dy, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}

func xmlEscapeAttr(s string) string {
	return html.EscapeString(s)
}
