package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nzambello/ploneview/pkg/config"
	"github.com/nzambello/ploneview/pkg/site"
	"github.com/nzambello/ploneview/pkg/view"
	"github.com/urfave/cli/v3"
)

// RenderCommand creates the render command
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a content path to standard output",
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fragment",
				Usage: "Render only the document body, without the page layout",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected a single content path, such as /en/news")
			}
			return renderPath(ctx, os.Stdout, c.String("config"), c.Args().First(), c.Bool("fragment"))
		},
	}
}

func renderPath(ctx context.Context, w io.Writer, configPath, path string, fragment bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	st, err := site.New(cfg)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	return renderSite(ctx, w, st, path, fragment)
}

func renderSite(ctx context.Context, w io.Writer, st *site.Site, path string, fragment bool) error {
	req, ok := resolve(st, path)
	if !ok {
		return fmt.Errorf("%s: not under a supported language (%v)", path, st.Locales.Supported())
	}
	if !st.URLs.IsContentRoute(path) {
		return fmt.Errorf("%s is not a content route", path)
	}

	s := NewWebServer(site.NewHolder(st), nil)
	doc, nav, err := s.fetch(ctx, st, req)
	if err != nil {
		return err
	}
	if fragment {
		return st.Viewer.Document(doc).Render(ctx, w)
	}
	return view.Page(s.documentPage(st, path, req.lang, nav, doc)).Render(ctx, w)
}
