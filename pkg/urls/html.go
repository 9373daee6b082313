package urls

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var urlAttrs = []string{"href", "src", "srcset", "action", "poster"}

// FlattenHTMLToAppURL rewrites the URL attributes of an HTML fragment
// through FlattenToAppURL. Text content is left alone. When the fragment
// cannot be parsed the backend origins are removed with plain replacement.
func (n *Normalizer) FlattenHTMLToAppURL(fragment string) string {
	if fragment == "" {
		return ""
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return n.replaceOrigins(fragment)
	}
	for _, node := range nodes {
		root.AppendChild(node)
	}

	doc := goquery.NewDocumentFromNode(root)
	for _, attr := range urlAttrs {
		doc.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			v, _ := s.Attr(attr)
			if attr == "srcset" {
				s.SetAttr(attr, n.flattenSrcset(v))
				return
			}
			s.SetAttr(attr, n.FlattenToAppURL(v))
		})
	}

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return n.replaceOrigins(fragment)
		}
	}
	return buf.String()
}

func (n *Normalizer) flattenSrcset(v string) string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		fields[0] = n.FlattenToAppURL(fields[0])
		parts[i] = strings.Join(fields, " ")
	}
	return strings.Join(parts, ", ")
}

func (n *Normalizer) replaceOrigins(s string) string {
	if n.internalAPIPath != "" {
		s = strings.ReplaceAll(s, n.internalAPIPath, "")
	}
	if n.apiPath != "" {
		s = strings.ReplaceAll(s, n.apiPath, "")
	}
	return s
}
