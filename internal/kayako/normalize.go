package kayako

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// attrPrefix distinguishes attribute keys from child element tags inside
// a mapping; "@" can never start an XML tag name.
const attrPrefix = "@"

// textKey holds text that appears alongside child elements.
const textKey = "#text"

// Normalize parses an XML document and converts it into a canonical Node
// tree. It fails with ErrMalformedInput when the text is not well-formed
// XML or has no root element.
//
// Normalization is deterministic: identical input always yields a
// structurally identical tree.
func Normalize(xmlText string) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrMalformedInput)
	}
	return normalizeElement(root), nil
}

// normalizeElement converts one element depth-first.
func normalizeElement(el *etree.Element) *Node {
	children := el.ChildElements()

	// Leaf: coerce the text content. Attributes on leaf elements are not
	// represented; Kayako leaves carry data in text only.
	if len(children) == 0 {
		return Scalar(coerceScalar(el.Text()))
	}

	m := NewMapping()
	for _, attr := range el.Attr {
		m.Add(attrPrefix+attr.FullKey(), Scalar(attr.Value))
	}
	for _, child := range children {
		m.Add(child.Tag, normalizeElement(child))
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		m.Add(textKey, Scalar(text))
	}
	return m
}

// coerceScalar applies type inference to leaf text in strict priority
// order: boolean literal, integer, float, raw trimmed string. Empty and
// whitespace-only text coerce to null. Malformed numeric-looking strings
// fall back to the string form rather than being accepted loosely.
func coerceScalar(text string) any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch strings.ToLower(text) {
	case "true":
		return true
	case "false":
		return false
	}

	if allDigits(text) {
		// Leading zeros lose their formatting here ("007" becomes 7).
		// Known lossy behavior: numeric coercion wins over string
		// preservation. Values too large for int64 stay strings.
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v
		}
		return text
	}

	if strings.Contains(text, ".") {
		if rest := strings.ReplaceAll(text, ".", ""); rest != "" && allDigits(rest) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				return v
			}
		}
	}

	return text
}

// allDigits reports whether s consists solely of ASCII digits.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
