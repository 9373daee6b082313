package cmd

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/klauspost/compress/gzhttp"
	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/i18n"
	"github.com/nzambello/ploneview/pkg/livereload"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/plone"
	"github.com/nzambello/ploneview/pkg/site"
	"github.com/nzambello/ploneview/pkg/version"
	"github.com/nzambello/ploneview/pkg/view"
	"golang.org/x/sync/errgroup"
)

//go:embed web/static/*
var staticFS embed.FS

// WebServer serves the pages of the site currently held by sites.
type WebServer struct {
	sites  *site.Holder
	hub    *livereload.Hub
	logger *log.Logger
}

// NewWebServer returns a server for sites. A non-nil hub enables live
// reload.
func NewWebServer(sites *site.Holder, hub *livereload.Hub) *WebServer {
	return &WebServer{sites: sites, hub: hub, logger: log.ForService("web")}
}

// Handler returns the complete handler, middleware included.
func (s *WebServer) Handler() http.Handler {
	pages := http.NewServeMux()
	pages.HandleFunc("GET /", s.handlePage)
	pages.HandleFunc("GET /health", s.handleHealth)
	static, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	pages.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux := http.NewServeMux()
	if s.hub != nil {
		mux.Handle("GET "+livereload.Path, livereload.NewHandler(s.hub))
	}
	mux.Handle("/", gzhttp.GzipHandler(pages))

	return requestID(s.accessLog(mux))
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (s *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
	})
	if err != nil {
		s.logger.Errorf("encoding health response: %v", err)
	}
}

// pageRequest is a request resolved against the site languages.
type pageRequest struct {
	lang string
	// path is the content path relative to the site root, such as
	// "/it/news". It is "" for the root of monolingual sites.
	path string
}

// resolve maps the request path to a language and a content path.
// Multilingual sites serve content under /{lang}; monolingual ones from
// the root.
func resolve(st *site.Site, urlPath string) (pageRequest, bool) {
	p := "/" + strings.Trim(urlPath, "/")
	if p == "/" {
		p = ""
	}
	if !st.Config.IsMultilingual {
		return pageRequest{lang: st.Locales.Default(), path: p}, true
	}
	lang, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if !st.Locales.IsSupported(lang) {
		return pageRequest{lang: lang, path: p}, false
	}
	return pageRequest{lang: lang, path: p}, true
}

func (s *WebServer) handlePage(w http.ResponseWriter, r *http.Request) {
	st := s.sites.Load()

	if r.URL.Path == "/" && st.Config.IsMultilingual {
		http.Redirect(w, r, "/"+st.Locales.Default(), http.StatusFound)
		return
	}

	req, ok := resolve(st, r.URL.EscapedPath())
	if !ok || st.URLs.IsCmsUI(r.URL.Path) {
		s.notFound(w, r, st, st.Locales.Detect(r), nil)
		return
	}

	doc, nav, err := s.fetch(r.Context(), st, req)
	if err != nil {
		if errors.Is(err, plone.ErrNotFound) {
			s.notFound(w, r, st, req.lang, nav)
			return
		}
		s.logger.Errorf("fetching %s: %v", req.path, err)
		http.Error(w, "Bad gateway: the content backend is unavailable", http.StatusBadGateway)
		return
	}

	i18n.SetCookie(w, req.lang)
	s.write(w, r, http.StatusOK, view.Page(s.documentPage(st, r.URL.Path, req.lang, nav, doc)))
}

// fetch loads the content at req and the navigation tree concurrently.
// Navigation failures only leave the menu empty.
func (s *WebServer) fetch(ctx context.Context, st *site.Site, req pageRequest) (core.Document, []plone.NavItem, error) {
	var (
		doc     core.Document
		nav     []plone.NavItem
		navLang string
	)
	if st.Config.IsMultilingual {
		navLang = req.lang
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = st.Client.Content(gctx, req.path, "translations")
		return err
	})
	g.Go(func() error {
		var err error
		nav, err = st.Client.Navigation(gctx, navLang, st.Config.NavigationDepth)
		if err != nil && gctx.Err() == nil {
			s.logger.Warnf("navigation for %q: %v", req.lang, err)
		}
		return nil
	})
	err := g.Wait()
	return doc, nav, err
}

func (s *WebServer) documentPage(st *site.Site, path, lang string, nav []plone.NavItem, doc core.Document) view.PageData {
	data := s.pageData(st, path, lang, nav, doc.Translations())
	data.Title = doc.Title()
	if id := doc.ID(); id != "" {
		data.CanonicalURL = st.URLs.ToPublicURL(id)
	}
	data.Content = st.Viewer.Document(doc)
	return data
}

func (s *WebServer) pageData(st *site.Site, path, lang string, nav []plone.NavItem, translations []core.Translation) view.PageData {
	home := "/"
	if st.Config.IsMultilingual {
		home = "/" + lang
	}
	data := view.PageData{
		Lang:       lang,
		SiteTitle:  st.Config.SiteTitle,
		HomeURL:    home,
		Path:       path,
		Navigation: view.Navigation(st.URLs, nav, st.Config.NavigationDepth, path),
		LiveReload: s.hub != nil,
		Version:    version.Version,
	}
	if st.Config.IsMultilingual {
		data.Languages = view.Languages(st.URLs, st.Locales.Supported(), lang, translations)
	}
	return data
}

func (s *WebServer) notFound(w http.ResponseWriter, r *http.Request, st *site.Site, lang string, nav []plone.NavItem) {
	if !st.Locales.IsSupported(lang) {
		lang = st.Locales.Default()
	}
	s.write(w, r, http.StatusNotFound, view.NotFound(s.pageData(st, r.URL.Path, lang, nav, nil)))
}

// write renders c into a buffer before sending status.
func (s *WebServer) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.logger.Errorf("rendering %s: %v", r.URL.Path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
