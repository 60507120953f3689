package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

// serveCommand returns a CLI command that runs the HTTP API until the
// process is interrupted. While it runs, the wallet balance follows the
// selected chain.
//
// Usage example:
//
//	wsxplore serve
func serveCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Description: "Serve the explorer HTTP API and the live blocks feed.",
		Usage:       "Runs the HTTP server. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			g, gctx := errgroup.WithContext(runCtx)

			// The wallet watcher stops with the server.
			g.Go(func() error {
				defer cancel()
				return deps.Server.Run(gctx)
			})

			if deps.Wallet != nil {
				g.Go(func() error {
					deps.Wallet.WatchSelection(gctx, deps.Selection)
					return nil
				})
			}

			err := g.Wait()
			logger.Info(ctx, "server stopped")
			return err
		},
	}
}
