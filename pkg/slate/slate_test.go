package slate

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/markup"
	"github.com/nzambello/ploneview/pkg/urls"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	n, err := urls.New(urls.Settings{
		APIPath:         "http://localhost:8080/Plone",
		InternalAPIPath: "http://backend:8080/Plone",
		PublicURL:       "https://www.example.org",
	})
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}
	return NewRenderer(DefaultElements(n), DefaultTopLevelTargets)
}

func nodes(t *testing.T, s string) []Node {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return Decode(v)
}

func join(cs []templ.Component) string {
	var sb strings.Builder
	for _, c := range cs {
		sb.WriteString(markup.MustString(c))
	}
	return sb.String()
}

func TestTextLeafLineBreaks(t *testing.T) {
	r := newTestRenderer(t)

	units := r.Render("b1", []Node{{Text: "a\nb"}}, false)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if got := join(units); got != "<span>a</span><br><span>b</span>" {
		t.Fatalf("unexpected output %q", got)
	}

	units = r.Render("b1", []Node{{Text: "a"}}, false)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if got := join(units); strings.Contains(got, "<br>") {
		t.Fatalf("single line must not contain a break: %q", got)
	}
}

func TestConsecutiveNewlinesArePreserved(t *testing.T) {
	r := newTestRenderer(t)
	got := join(r.Render("b1", []Node{{Text: "a\n\nb"}}, false))
	if got != "<span>a</span><br><span></span><br><span>b</span>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTypelessElementIsEmpty(t *testing.T) {
	r := newTestRenderer(t)
	units := r.Render("b1", []Node{{Children: []Node{{Text: "lost"}}}}, false)
	if len(units) != 1 || join(units) != "" {
		t.Fatalf("expected one empty unit, got %d %q", len(units), join(units))
	}
}

func TestNilNodes(t *testing.T) {
	r := newTestRenderer(t)
	if units := r.Render("b1", nil, true); len(units) != 0 {
		t.Fatalf("expected no output for nil nodes")
	}
	if units := r.RenderValue("b1", "not an array", false); len(units) != 0 {
		t.Fatalf("expected no output for a malformed value")
	}
}

func TestUnknownElementFallsBackToParagraph(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)

	r := newTestRenderer(t)
	got := join(r.Render("b1", nodes(t, `[{"type": "marquee", "children": [{"text": "hi"}]}]`), false))

	if got != "<p><span>hi</span></p>" {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.Contains(buf.String(), `unknown slate element type "marquee"`) {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}

func TestHeadingAnchors(t *testing.T) {
	r := newTestRenderer(t)
	got := join(r.Render("blk", nodes(t, `[
		{"type": "h2", "children": [{"text": "Title"}]},
		{"type": "p", "children": [{"text": "Body"}]},
		{"type": "h3", "children": [{"text": "Sub"}]}
	]`), false))

	want := `<h2 id="blk"><span>Title</span></h2><p><span>Body</span></p><h3 id="blk"><span>Sub</span></h3>`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestForceAnchorsDoesNotPropagate(t *testing.T) {
	r := newTestRenderer(t)
	got := join(r.Render("blk", nodes(t, `[
		{"type": "ul", "children": [
			{"type": "li", "children": [{"text": "one"}]},
			{"type": "li", "children": [{"type": "h4", "children": [{"text": "deep"}]}]}
		]}
	]`), true))

	want := `<ul id="blk"><li><span>one</span></li><li><h4 id="blk"><span>deep</span></h4></li></ul>`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestInlineMarks(t *testing.T) {
	r := newTestRenderer(t)
	got := join(r.Render("blk", nodes(t, `[
		{"type": "p", "children": [
			{"text": "a "},
			{"type": "strong", "children": [{"text": "b"}]},
			{"type": "s", "children": [{"text": "c"}]},
			{"type": "code", "children": [{"text": "<d>"}]}
		]}
	]`), true))

	want := `<p id="blk"><span>a </span><strong><span>b</span></strong><del><span>c</span></del><code><span>&lt;d&gt;</span></code></p>`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestLinkElement(t *testing.T) {
	r := newTestRenderer(t)

	cases := []struct {
		name string
		data string
		want string
	}{
		{
			"internal",
			`{"link": {"internal": {"internal_link": [{"@id": "http://backend:8080/Plone/it/news"}]}}}`,
			`<a href="/it/news"><span>x</span></a>`,
		},
		{
			"external blank",
			`{"title": "Plone", "link": {"external": {"external_link": "https://plone.org", "target": "_blank"}}}`,
			`<a href="https://plone.org" title="Plone" target="_blank" rel="noopener noreferrer"><span>x</span></a>`,
		},
		{
			"email",
			`{"link": {"email": {"email_address": "info@example.org", "email_subject": "Hello"}}}`,
			`<a href="mailto:info@example.org?subject=Hello"><span>x</span></a>`,
		},
		{
			"legacy url",
			`{"url": "https://www.example.org/it/contatti"}`,
			`<a href="/it/contatti"><span>x</span></a>`,
		},
		{
			"humanized external",
			`{"link": {"external": {"external_link": "plone.org"}}}`,
			`<a href="https://plone.org"><span>x</span></a>`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			value := `[{"type": "p", "children": [{"type": "a", "data": ` + c.data + `, "children": [{"text": "x"}]}]}]`
			got := join(r.Render("blk", nodes(t, value), false))
			want := "<p>" + c.want + "</p>"
			if got != want {
				t.Fatalf("got  %s\nwant %s", got, want)
			}
		})
	}
}

func TestDecodeToleratesBadData(t *testing.T) {
	ns := nodes(t, `[
		{"type": "a", "data": {"title": 5}, "children": [{"text": "x"}, 3, null]},
		"junk"
	]`)
	if len(ns) != 1 {
		t.Fatalf("expected one node, got %d", len(ns))
	}
	if ns[0].Data != nil {
		t.Fatalf("mismatched data should be dropped")
	}
	if len(ns[0].Children) != 1 || ns[0].Children[0].Text != "x" {
		t.Fatalf("children should survive: %+v", ns[0].Children)
	}
}

func TestHeadings(t *testing.T) {
	r := NewRenderer(DefaultElements(nil), []string{"h2", "h3"})
	hs := r.Headings("blk", nodes(t, `[
		{"type": "h2", "children": [{"text": "Intro "}, {"type": "em", "children": [{"text": "here"}]}]},
		{"type": "h1", "children": [{"text": "not a target"}]},
		{"type": "p", "children": [{"text": "body"}]},
		{"type": "h3", "children": [{"text": "Details"}]}
	]`))
	if len(hs) != 2 {
		t.Fatalf("expected 2 headings, got %+v", hs)
	}
	if hs[0] != (Heading{Level: 2, Text: "Intro here", ID: "blk"}) || hs[1].Level != 3 {
		t.Fatalf("unexpected headings %+v", hs)
	}
}

func TestNestedHeadingsMatchAnchors(t *testing.T) {
	r := newTestRenderer(t)
	ns := nodes(t, `[
		{"type": "ul", "children": [
			{"type": "li", "children": [{"type": "h4", "children": [{"text": "deep"}]}]}
		]},
		{"type": "blockquote", "children": [{"type": "h2", "children": [{"text": "quoted"}]}]}
	]`)
	hs := r.Headings("blk", ns)
	want := []Heading{{Level: 4, Text: "deep", ID: "blk"}, {Level: 2, Text: "quoted", ID: "blk"}}
	if len(hs) != len(want) || hs[0] != want[0] || hs[1] != want[1] {
		t.Fatalf("got %+v, want %+v", hs, want)
	}
	got := join(r.Render("blk", ns, false))
	if !strings.Contains(got, `<h4 id="blk">`) || !strings.Contains(got, `<h2 id="blk">`) {
		t.Fatalf("nested headings not anchored: %s", got)
	}
}

func TestElementsRegistry(t *testing.T) {
	e := NewElements(nil)
	if _, ok := e.Lookup("p"); ok {
		t.Fatalf("empty registry has only the default element")
	}
	if got := markup.MustString(e.Default()(Props{ID: "x"})); got != `<p id="x"></p>` {
		t.Fatalf("unexpected default element %q", got)
	}

	custom := e.With("mark", inline("mark"))
	if _, ok := custom.Lookup("mark"); !ok {
		t.Fatalf("expected mark to be registered")
	}
	if _, ok := e.Lookup("mark"); ok {
		t.Fatalf("With must not modify the receiver")
	}
}
