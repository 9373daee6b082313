package blocks

import (
	"embed"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/nzambello/ploneview/pkg/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

var views = render.MustParse(templatesFS, nil, "templates/*.html")

// alignClasses returns the alignment classes shared by embed blocks: the
// align value itself, or "center" when unset.
func alignClasses(align string) string {
	if align == "" {
		return "center"
	}
	return align
}

func innerClass(align string) string {
	if align == "full" {
		return "full-width"
	}
	return ""
}

type mapsData struct {
	AlignClass string
	InnerClass string
	Title      string
	URL        string
}

// MapsView renders an embedded map.
func MapsView(p Props) templ.Component {
	align := p.Data.Str("align")
	return views.Component("maps", mapsData{
		AlignClass: alignClasses(align),
		InnerClass: innerClass(align),
		Title:      p.Content.Str("title"),
		URL:        p.Content.Str("url"),
	})
}

type videoData struct {
	AlignClass string
	InnerClass string
	Title      string
	URL        string
	Embed      string
	File       string
}

var videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".ogg": true, ".ogv": true, ".mov": true}

// VideoSource classifies a video URL. YouTube and Vimeo links get an
// embeddable player URL; direct links to video files and internal URLs
// are played with <video>.
func VideoSource(raw string, internal bool) (embedURL, file string) {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return "", ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtube.com" || host == "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id, ""
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok && rest != "" {
			return "https://www.youtube.com/embed/" + rest, ""
		}
	case host == "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id, ""
		}
	case host == "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://player.vimeo.com/video/" + id, ""
		}
	case host == "player.vimeo.com":
		return raw, ""
	}
	if internal || videoExtensions[strings.ToLower(path.Ext(u.Path))] {
		return "", raw
	}
	return "", ""
}

// VideoView renders a video block.
func VideoView(p Props) templ.Component {
	align := p.Data.Str("align")
	raw := p.Content.Str("url")
	internal := false
	if p.Env != nil && p.Env.URLs != nil && raw != "" && p.Env.URLs.IsInternalURL(raw) {
		internal = true
		raw = p.Env.URLs.FlattenToAppURL(raw)
	}
	embedURL, file := VideoSource(raw, internal)
	return views.Component("video", videoData{
		AlignClass: alignClasses(align),
		InnerClass: innerClass(align),
		Title:      p.Content.Str("title"),
		URL:        raw,
		Embed:      embedURL,
		File:       file,
	})
}
