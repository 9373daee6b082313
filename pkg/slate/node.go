package slate

import (
	"encoding/json"
	"strings"

	"github.com/nzambello/ploneview/pkg/core"
)

// Node is a rich text tree node. A node with non-empty Text is a text leaf;
// otherwise it is an element identified by Type.
type Node struct {
	Type     string       `json:"type,omitempty"`
	Text     string       `json:"text,omitempty"`
	Children []Node       `json:"children,omitempty"`
	Data     *ElementData `json:"data,omitempty"`
}

// IsText reports whether n is a text leaf.
func (n Node) IsText() bool { return n.Text != "" }

// ElementData is the per element payload. Only links use it today.
type ElementData struct {
	Title string    `json:"title,omitempty"`
	URL   string    `json:"url,omitempty"`
	Link  *LinkData `json:"link,omitempty"`
}

type LinkData struct {
	External *ExternalLink `json:"external,omitempty"`
	Internal *InternalLink `json:"internal,omitempty"`
	Email    *EmailLink    `json:"email,omitempty"`
}

type ExternalLink struct {
	ExternalLink string `json:"external_link,omitempty"`
	Target       string `json:"target,omitempty"`
}

type InternalLink struct {
	InternalLink []LinkRef `json:"internal_link,omitempty"`
	Target       string    `json:"target,omitempty"`
}

// LinkRef is a reference to a content object, as stored by the object
// browser widget.
type LinkRef struct {
	ID    string `json:"@id"`
	Title string `json:"title,omitempty"`
}

type EmailLink struct {
	EmailAddress string `json:"email_address,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
}

// Decode converts a decoded JSON value into nodes. Anything that is not an
// array yields no nodes; array entries that are not objects are skipped.
// Element data that does not match ElementData is dropped, the rest of the
// tree is kept.
func Decode(v any) []Node {
	items, _ := v.([]any)
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		nodes = append(nodes, decodeNode(m))
	}
	return nodes
}

func decodeNode(m map[string]any) Node {
	n := Node{
		Type:     core.String(m, "type"),
		Text:     core.String(m, "text"),
		Children: Decode(m["children"]),
	}
	if raw, ok := m["data"].(map[string]any); ok {
		n.Data = decodeData(raw)
	}
	return n
}

func decodeData(raw map[string]any) *ElementData {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var d ElementData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil
	}
	return &d
}

// PlainText concatenates the text leaves below nodes.
func PlainText(nodes []Node) string {
	var sb strings.Builder
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			if n.IsText() {
				sb.WriteString(n.Text)
				continue
			}
			walk(n.Children)
		}
	}
	walk(nodes)
	return sb.String()
}
