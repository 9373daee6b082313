package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/nzambello/ploneview/cmd"
	"github.com/nzambello/ploneview/pkg/config"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	log.EnableDebugList(os.Getenv("PLONEVIEW_DEBUG"))

	app := &cli.Command{
		Name:  "ploneview",
		Usage: "Server rendered front end for Plone sites",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.ServeCommand(),
			cmd.RenderCommand(),
			cmd.BlocksCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
