package markup

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
)

func TestElementAttributes(t *testing.T) {
	c := Element("a", []Attr{
		A("title", `say "hi"`),
		Opt("id", ""),
		Opt("target", "_blank"),
		Href("href", "/it/news?a=1&b=2"),
	}, Text("<news>"))

	got := MustString(c)
	want := `<a title="say &#34;hi&#34;" target="_blank" href="/it/news?a=1&amp;b=2">&lt;news&gt;</a>`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestHrefSanitizesScripts(t *testing.T) {
	got := MustString(Element("a", []Attr{Href("href", "javascript:alert(1)")}))
	if got == `<a href="javascript:alert(1)"></a>` {
		t.Fatalf("javascript URL was not sanitized")
	}
}

func TestVoidAndFragment(t *testing.T) {
	c := Fragment(El("span", Text("a")), LineBreak(), nil, El("span", Text("b")), Empty())
	if got := MustString(c); got != "<span>a</span><br><span>b</span>" {
		t.Fatalf("unexpected output %q", got)
	}
	img := Void("img", []Attr{A("src", "/x.png"), A("alt", "")})
	if got := MustString(img); got != `<img src="/x.png" alt="">` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRawIsNotEscaped(t *testing.T) {
	if got := MustString(El("div", Raw("<b>x</b>"))); got != "<div><b>x</b></div>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestClass(t *testing.T) {
	a := Class("block", "image", templ.KV("full-width", true), templ.KV("large", false))
	if a.Value != "block image full-width" {
		t.Fatalf("unexpected class %q", a.Value)
	}
	if !Class().skip() {
		t.Fatalf("empty class attribute should be skipped")
	}
}

func TestStringPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
	if _, err := String(context.Background(), El("div", failing)); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
