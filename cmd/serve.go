package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nzambello/ploneview/pkg/config"
	"github.com/nzambello/ploneview/pkg/livereload"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/site"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the site over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to, overrides the configuration",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on, overrides the configuration",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Reload the configuration on change and refresh open pages",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, serveOptions{
				configPath: c.String("config"),
				host:       c.String("host"),
				port:       c.Int("port"),
				dev:        c.Bool("dev"),
			})
		},
	}
}

type serveOptions struct {
	configPath string
	host       string
	port       int
	dev        bool
}

func serve(ctx context.Context, opts serveOptions) error {
	logger := log.ForService("serve")

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	st, err := site.New(cfg)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	sites := site.NewHolder(st)

	host, port := cfg.Server.Host, cfg.Server.Port
	if opts.host != "" {
		host = opts.host
	}
	if opts.port != 0 {
		port = opts.port
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var hub *livereload.Hub
	if opts.dev {
		hub = livereload.NewHub(0)
		defer hub.Close()
		watcher := livereload.NewWatcher(opts.configPath, func(path string) {
			if err := reloadSite(sites, path); err != nil {
				logger.Errorf("Reloading %s: %v", path, err)
				return
			}
			logger.Infof("Configuration reloaded from %s", path)
			hub.Broadcast(livereload.ReloadEvent("config"))
		})
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warnf("Not watching %s: %v", opts.configPath, err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           NewWebServer(sites, hub).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLogger(log.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving %s at http://%s", cfg.SiteTitle, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// reloadSite swaps in a site built from the configuration at path. The
// current site keeps serving if the new configuration is invalid.
func reloadSite(sites *site.Holder, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	st, err := site.New(cfg)
	if err != nil {
		return err
	}
	sites.Store(st)
	return nil
}
