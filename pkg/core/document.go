package core

import "strings"

// Document is a content object as returned by the Plone REST API. Only a
// handful of fields have a fixed meaning; everything else is passed through
// to the block views untouched.
type Document map[string]any

// ID returns the backend URL of the document.
func (d Document) ID() string { return String(d, "@id") }

// Type returns the portal type, such as "Document" or "News Item".
func (d Document) Type() string { return String(d, "@type") }

func (d Document) Title() string { return String(d, "title") }

func (d Document) Subtitle() string { return String(d, "subtitle") }

func (d Document) Description() string { return String(d, "description") }

// Language returns the language token of the document. Plone sends either
// a plain string or a {token, title} vocabulary term.
func (d Document) Language() string {
	if s := String(d, "language"); s != "" {
		return s
	}
	return String(d, "language", "token")
}

// Text returns the trusted rich text body of documents without blocks.
func (d Document) Text() string { return String(d, "text", "data") }

// Image returns the lead image field.
func (d Document) Image() Image { return Image(Map(d, "image")) }

// Container returns the block container of the document, if any.
func (d Document) Container() (*Container, bool) { return ContainerOf(d) }

// HasBlocks reports whether the document has a non-empty blocks field.
func (d Document) HasBlocks() bool { return HasBlocksData(d) }

// Translation links a document to its counterpart in another language.
type Translation struct {
	ID       string
	Language string
}

// Translations returns the expanded @components.translations items.
func (d Document) Translations() []Translation {
	var out []Translation
	for _, item := range Slice(d, "@components", "translations", "items") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		t := Translation{ID: String(m, "@id"), Language: String(m, "language")}
		if t.ID != "" && t.Language != "" {
			out = append(out, t)
		}
	}
	return out
}

// Image is a Plone image field value with its pre-computed scales.
type Image map[string]any

func (i Image) Download() string { return String(i, "download") }

func (i Image) ContentType() string { return String(i, "content-type") }

func (i Image) Filename() string { return String(i, "filename") }

// Scale returns the download URL of a named scale ("mini", "preview", ...)
// or "" when the backend did not compute it.
func (i Image) Scale(name string) string { return String(i, "scales", name, "download") }

// IsSVG reports whether the original is a vector image. Vector images are
// not scaled by the backend.
func (i Image) IsSVG() bool {
	return strings.Contains(i.ContentType(), "svg") || strings.HasSuffix(strings.ToLower(i.Filename()), ".svg")
}

// Block is the data of a single block. Its shape depends on Type.
type Block map[string]any

// Type returns the @type discriminator, "" when absent.
func (b Block) Type() string { return String(b, "@type") }

func (b Block) Str(keys ...string) string { return String(b, keys...) }
func (b Block) Bool(keys ...string) bool { return Bool(b, keys...) }
func (b Block) Map(keys ...string) map[string]any { return Map(b, keys...) }
func (b Block) Slice(keys ...string) []any { return Slice(b, keys...) }
func (b Block) Lookup(keys ...string) any { return Lookup(b, keys...) }
