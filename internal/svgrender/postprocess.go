package svgrender

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	// PrefixNodeLabel* MUST start with "|" and be 2 characters long.
	PrefixNodeLabelSmall = "|."
	PrefixNodeLabelEm    = "|,"
)

// classPrefixMap defines the mapping from short prefixes to CSS class names.
var classPrefixMap = map[string]string{
	PrefixNodeLabelSmall: "node-label-small",
	PrefixNodeLabelEm:    "node-label-em",
}

// PostprocessClassPrefixes reads SVG data, injects class attributes into
// <tspan> elements based on a recognized two-character prefix on their
// text content, and strips the prefix from the visible text. This lets
// writeTextBlock mark a whole label (e.g. a subgraph title) for
// emphasis without threading a "class" parameter through every text
// helper.
func PostprocessClassPrefixes(svg []byte) ([]byte, error) {
	in := bytes.NewReader(svg)
	var out bytes.Buffer

	decoder := xml.NewDecoder(in)
	encoder := xml.NewEncoder(&out)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding XML token: %w", err)
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "tspan" {
			if err := encoder.EncodeToken(token); err != nil {
				return nil, fmt.Errorf("error encoding XML token: %w", err)
			}
			continue
		}

		nextToken, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("unexpected EOF after <tspan>")
			}
			return nil, fmt.Errorf("error getting token after <tspan>: %w", err)
		}

		charData, isCharData := nextToken.(xml.CharData)
		if !isCharData {
			if err := encoder.EncodeToken(se); err != nil {
				return nil, err
			}
			if err := encoder.EncodeToken(nextToken); err != nil {
				return nil, err
			}
			continue
		}

		newText, classVal := processText(string(charData))
		if classVal != "" {
			se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: "class"}, Value: classVal})
		}
		if err := encoder.EncodeToken(se); err != nil {
			return nil, err
		}
		if err := encoder.EncodeToken(xml.CharData(newText)); err != nil {
			return nil, err
		}
	}

	if err := encoder.Flush(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// processText checks if text has a recognized prefix (PrefixNodeLabel*).
// If it does, it returns the text with the prefix stripped and the
// corresponding class name. Otherwise it returns text unchanged and an
// empty class.
func processText(text string) (newText, classVal string) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= 2 && trimmed[0] == '|' {
		prefix := trimmed[:2]
		if className, ok := classPrefixMap[prefix]; ok {
			return strings.TrimLeft(trimmed[len(prefix):], " "), className
		}
	}
	return text, ""
}
