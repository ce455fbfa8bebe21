package builder

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// buildLabel renders <label for="id" class="...">. An explicit text is treated
// as inline markup and sanitised; the fallback is the id with its first letter
// upper-cased, rendered as plain text.
func (b *Builder) buildLabel(id, label string) *html.Node {
	node := element("label", []html.Attribute{
		attr("for", id),
		attr("class", b.classes.Label),
	})
	if label == "" {
		if fallback := upperFirst(id); fallback != "" {
			node.AppendChild(text(fallback))
		}
		return node
	}
	if markup := sanitizeMarkup(b.policy, label); markup != "" {
		node.AppendChild(raw(markup))
	}
	return node
}

// extractClass returns attrs["class"] when the key is present, otherwise def.
// attrs is not modified.
func extractClass(attrs Attributes, def string) string {
	if value, ok := attrs["class"]; ok {
		return value
	}
	return def
}

// withoutClass copies attrs minus the class entry.
func withoutClass(attrs Attributes) Attributes {
	if len(attrs) == 0 {
		return nil
	}
	out := make(Attributes, len(attrs))
	for key, value := range attrs {
		if key == "class" {
			continue
		}
		out[key] = value
	}
	return out
}

// formatAttributes turns attrs into node attributes sorted by name. Blank
// names and names outside the HTML attribute-name grammar are skipped; an
// empty mapping yields no attributes.
func formatAttributes(attrs Attributes) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if !ValidAttributeName(strings.TrimSpace(key)) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, key := range keys {
		out = append(out, attr(strings.TrimSpace(key), attrs[key]))
	}
	return out
}

// ValidAttributeName reports whether name can be written as an attribute
// name. The renderer does not escape names, so whitespace, quotes, '<', '>',
// '/', '=', control characters and noncharacters are rejected.
func ValidAttributeName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		switch {
		case unicode.IsSpace(r), unicode.IsControl(r):
			return false
		case r == '"', r == '\'', r == '<', r == '>', r == '/', r == '=':
			return false
		case r == utf8.RuneError, r >= 0xFDD0 && r <= 0xFDEF, r&0xFFFE == 0xFFFE:
			return false
		}
	}
	return true
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func attr(key, value string) html.Attribute {
	return html.Attribute{Key: key, Val: value}
}

func element(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	for _, child := range children {
		if child != nil {
			node.AppendChild(child)
		}
	}
	return node
}

func text(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// raw wraps markup that has already been sanitised.
func raw(markup string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: markup}
}

func renderNode(node *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, node)
	return sb.String()
}
