package urls

import (
	"strings"
	"testing"
	"testing/quick"

	"github.com/PuerkitoBio/goquery"
)

func newTestNormalizer(t *testing.T, legacy bool) *Normalizer {
	t.Helper()
	n, err := New(Settings{
		APIPath:          "http://localhost:8080/Plone",
		InternalAPIPath:  "http://backend:8080/Plone",
		PublicURL:        "https://www.example.org",
		LegacyTraverse:   legacy,
		NonContentRoutes: DefaultNonContentRoutes,
	})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	return n
}

func TestFlattenToAppURL(t *testing.T) {
	n := newTestNormalizer(t, false)
	cases := map[string]string{
		"http://backend:8080/Plone/it/news":   "/it/news",
		"http://localhost:8080/Plone/en":      "/en",
		"https://www.example.org/it/contatti": "/it/contatti",
		"/it/already-flat":                    "/it/already-flat",
		"https://other.org/page":              "https://other.org/page",
		"":                                    "",
	}
	for in, want := range cases {
		if got := n.FlattenToAppURL(in); got != want {
			t.Errorf("FlattenToAppURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlattenToAppURLNestedOrigins(t *testing.T) {
	n, err := New(Settings{
		APIPath:   "https://www.example.org/api",
		PublicURL: "https://www.example.org",
	})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	if got := n.FlattenToAppURL("https://www.example.orghttps://www.example.org/api/x"); got != "/x" {
		t.Fatalf("expected /x, got %q", got)
	}
}

func TestFlattenToAppURLIdempotent(t *testing.T) {
	n := newTestNormalizer(t, false)
	prefixes := []string{"", "http://backend:8080/Plone", "http://localhost:8080/Plone", "https://www.example.org"}

	f := func(a, b uint8, rest string) bool {
		u := prefixes[int(a)%len(prefixes)] + prefixes[int(b)%len(prefixes)] + rest
		once := n.FlattenToAppURL(u)
		return n.FlattenToAppURL(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatalf("flatten is not idempotent: %v", err)
	}
}

func TestEmptySettingsAreNoops(t *testing.T) {
	n, err := New(Settings{})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	if got := n.FlattenToAppURL("http://x/y"); got != "http://x/y" {
		t.Fatalf("expected unchanged URL, got %q", got)
	}
	if n.IsInternalURL("http://x/y") {
		t.Fatalf("empty origins must not make every URL internal")
	}
	if !n.IsContentRoute("/anything/edit") {
		t.Fatalf("no matchers configured, everything is content")
	}
}

func TestIsInternalURL(t *testing.T) {
	n := newTestNormalizer(t, false)
	internal := []string{
		"",
		"/it/news",
		"./relative",
		"#anchor",
		"http://backend:8080/Plone/it",
		"http://localhost:8080/Plone/en/page",
		"https://www.example.org/it",
	}
	for _, u := range internal {
		if !n.IsInternalURL(u) {
			t.Errorf("expected %q to be internal", u)
		}
	}
	for _, u := range []string{"https://plone.org", "mailto:a@b.it"} {
		if n.IsInternalURL(u) {
			t.Errorf("expected %q to be external", u)
		}
	}
}

func TestIsContentRoute(t *testing.T) {
	n := newTestNormalizer(t, false)
	content := []string{
		"/it",
		"/it/news",
		"/it/editorial",
		"/it/news?page=2",
		"/it/contents-page",
		"/it/searching",
	}
	for _, p := range content {
		if !n.IsContentRoute(p) {
			t.Errorf("expected %q to be a content route", p)
		}
	}
	nonContent := []string{
		"/it/news/edit",
		"/it/news/add",
		"/it/news/contents",
		"/login",
		"/it/search?SearchableText=x",
		"/controlpanel/users",
		"/passwordreset/abc123",
		"/it/news/manage-translations",
	}
	for _, p := range nonContent {
		if n.IsContentRoute(p) {
			t.Errorf("expected %q to be a non-content route", p)
		}
		if !n.IsCmsUI(p) {
			t.Errorf("expected %q to be a CMS UI route", p)
		}
	}
}

func TestInvalidRoutePattern(t *testing.T) {
	_, err := New(Settings{NonContentRoutes: []string{"re:("}})
	if err == nil {
		t.Fatalf("expected an error for an invalid pattern")
	}
}

func TestLiteralRoutesAreQuoted(t *testing.T) {
	n, err := New(Settings{NonContentRoutes: []string{"/a.b"}})
	if err != nil {
		t.Fatalf("new normalizer: %v", err)
	}
	if n.IsContentRoute("/x/a.b") {
		t.Fatalf("literal route should match its exact suffix")
	}
	if !n.IsContentRoute("/x/aXb") {
		t.Fatalf("literal dot must not act as a wildcard")
	}
}

func TestExpandToBackendURL(t *testing.T) {
	n := newTestNormalizer(t, false)
	cases := map[string]string{
		"it/news":                         "http://localhost:8080/Plone/++api++/it/news",
		"/it/news":                        "http://localhost:8080/Plone/++api++/it/news",
		"https://www.example.org/it/news": "http://localhost:8080/Plone/++api++/it/news",
	}
	for in, want := range cases {
		if got := n.ExpandToBackendURL(in); got != want {
			t.Errorf("ExpandToBackendURL(%q) = %q, want %q", in, got, want)
		}
	}

	legacy := newTestNormalizer(t, true)
	if got := legacy.ExpandToBackendURL("/it"); got != "http://localhost:8080/Plone/it" {
		t.Fatalf("legacy traverse: got %q", got)
	}
}

func TestToPublicURL(t *testing.T) {
	n := newTestNormalizer(t, false)
	if got := n.ToPublicURL("http://backend:8080/Plone/it/news"); got != "https://www.example.org/it/news" {
		t.Fatalf("unexpected public URL %q", got)
	}
}

func TestPathHelpers(t *testing.T) {
	if got := StripQuerystring("/it/news?b_start=10"); got != "/it/news" {
		t.Errorf("StripQuerystring: %q", got)
	}
}

func TestFlattenHTMLToAppURL(t *testing.T) {
	n := newTestNormalizer(t, false)
	in := `<p>See <a href="http://backend:8080/Plone/it/news">news</a> and ` +
		`<img src="http://localhost:8080/Plone/it/logo.png/@@images/image" srcset="http://localhost:8080/Plone/a.png 1x, https://cdn.org/b.png 2x"> ` +
		`http://backend:8080/Plone stays in text</p>`

	out := n.FlattenHTMLToAppURL(in)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if href, _ := doc.Find("a").Attr("href"); href != "/it/news" {
		t.Errorf("href not flattened: %q", href)
	}
	if src, _ := doc.Find("img").Attr("src"); src != "/it/logo.png/@@images/image" {
		t.Errorf("src not flattened: %q", src)
	}
	if srcset, _ := doc.Find("img").Attr("srcset"); srcset != "/a.png 1x, https://cdn.org/b.png 2x" {
		t.Errorf("srcset not flattened: %q", srcset)
	}
	if !strings.Contains(doc.Find("p").Text(), "http://backend:8080/Plone stays in text") {
		t.Errorf("text content must not be rewritten: %q", out)
	}
	if strings.Contains(out, "<body>") {
		t.Errorf("fragment must not be wrapped in a document: %q", out)
	}
}

func TestCheckAndNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want  Link
	}{
		{"info@example.org", Link{URL: "mailto:info@example.org", IsMail: true, IsValid: true}},
		{"+39 06 1234567", Link{URL: "tel:+39 06 1234567", IsTelephone: true, IsValid: true}},
		{"plone.org", Link{URL: "https://plone.org", IsValid: true}},
		{"/it/news", Link{URL: "/it/news", IsValid: true}},
		{"#top", Link{URL: "#top", IsValid: true}},
		{"not a url", Link{URL: "https://not a url", IsValid: false}},
	}
	for _, c := range cases {
		if got := CheckAndNormalizeURL(c.in); got != c.want {
			t.Errorf("CheckAndNormalizeURL(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"plone.org":        "https://plone.org",
		"  plone.org ":     "https://plone.org",
		"http://plone.org": "http://plone.org",
		"//cdn.plone.org":  "//cdn.plone.org",
		"./file.pdf":       "./file.pdf",
		"localhost:3000":   "https://localhost:3000",
		"mailto:a@b.it":    "mailto:a@b.it",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
