// Package site assembles the rendering stack from a configuration: URL
// normalizer, rich text and block renderers, locale detection and the
// backend client.
package site

import (
	"fmt"
	"sync/atomic"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nzambello/ploneview/pkg/blocks"
	"github.com/nzambello/ploneview/pkg/config"
	"github.com/nzambello/ploneview/pkg/i18n"
	"github.com/nzambello/ploneview/pkg/plone"
	"github.com/nzambello/ploneview/pkg/slate"
	"github.com/nzambello/ploneview/pkg/urls"
	"github.com/nzambello/ploneview/pkg/view"
)

// Site is an immutable rendering stack. Requests keep the Site they
// started with even when a newer one is installed.
type Site struct {
	Config  *config.Config
	URLs    *urls.Normalizer
	Locales *i18n.Locales
	Client  *plone.Client
	Viewer  *view.Viewer
}

// New builds a Site from cfg. cfg must not be modified afterwards.
func New(cfg *config.Config) (*Site, error) {
	n, err := urls.New(cfg.URLSettings())
	if err != nil {
		return nil, fmt.Errorf("url settings: %w", err)
	}

	supported := cfg.SupportedLanguages
	if !cfg.IsMultilingual {
		supported = []string{cfg.DefaultLanguage}
	}
	locales, err := i18n.NewLocales(supported, cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}

	targets := cfg.Slate.TopLevelTargetElements
	if targets == nil {
		targets = slate.DefaultTopLevelTargets
	}

	env := &blocks.Env{
		Slate: slate.NewRenderer(slate.DefaultElements(n), targets),
		URLs:  n,
	}
	if cfg.SanitizeHTML {
		env.Sanitizer = bluemonday.UGCPolicy()
	}

	registry := blocks.DefaultRegistry()
	if len(cfg.Blocks.Disabled) > 0 {
		registry = registry.Without(cfg.Blocks.Disabled...)
	}

	internal := cfg.URLSettings().InternalAPIPath
	return &Site{
		Config:  cfg,
		URLs:    n,
		Locales: locales,
		Client:  plone.NewClient(internal, plone.WithTimeout(cfg.RequestTimeout.Duration)),
		Viewer:  view.New(blocks.NewRenderer(registry, env)),
	}, nil
}

// Holder publishes the current Site to concurrent readers.
type Holder struct {
	p atomic.Pointer[Site]
}

// NewHolder returns a holder publishing s.
func NewHolder(s *Site) *Holder {
	h := &Holder{}
	h.p.Store(s)
	return h
}

// Load returns the current Site.
func (h *Holder) Load() *Site { return h.p.Load() }

// Store installs s for new requests.
func (h *Holder) Store(s *Site) { h.p.Store(s) }
