// Package cli is the command-line entry point of wsxplore: it runs the HTTP
// server and answers one-shot explorer and wallet queries.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

// Registry lists the known chains.
type Registry interface {
	All() []chainregistry.Chain
	Network(n chainregistry.Network) []chainregistry.Chain
}

// Selection resolves the chain a command runs against.
type Selection interface {
	walletsvc.Selection
	SelectByRoute(slug string) (chainregistry.Chain, error)
}

// Server is the long-running HTTP surface started by `serve`.
type Server interface {
	Run(ctx context.Context) error
}

// Deps groups the services the commands run against.
type Deps struct {
	Registry  Registry
	Selection Selection
	Data      chaindata.Service
	Wallet    walletsvc.Service
	Server    Server
}

// Run initializes and executes the wsxplore CLI application.
//
// It registers all available commands, including:
//
//   - `serve`: Starts the HTTP API and the blocks feed.
//   - `chains`, `blocks`, `txs`, `tx`, `validators`, `uptime`, `balance`,
//     `search`, `info`, `pool`, `dashboard`: one-shot explorer queries.
//   - `wallet`: connects the configured wallet and reads its balances.
func Run(ctx context.Context, deps Deps) error {
	return newApp(deps).Run(ctx, os.Args)
}

func newApp(deps Deps) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "wsxplore",
		Description:           "Multi-chain block explorer for Cosmos-SDK and EVM networks.",
		Usage:                 "wsxplore [command] [flags]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output format (json, yaml)",
				Value: "json",
				Validator: func(s string) error {
					if s != "json" && s != "yaml" {
						return fmt.Errorf("unsupported output format %q", s)
					}
					return nil
				},
			},
		},
		Commands: []*cli.Command{
			serveCommand(deps),
			chainsCommand(deps),
			blocksCommand(deps),
			transactionsCommand(deps),
			transactionCommand(deps),
			validatorsCommand(deps),
			uptimeCommand(deps),
			balanceCommand(deps),
			searchCommand(deps),
			infoCommand(deps),
			poolCommand(deps),
			dashboardCommand(deps),
			walletCommand(deps),
		},
	}
}

// chainFlag selects the chain by id or name slug. Empty means the current
// selection. Flags keep parse state, so every command gets its own.
func chainFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "chain",
		Aliases: []string{"c"},
		Usage:   "Chain id or name slug (e.g., cosmoshub-4, cosmos-hub). Defaults to the first mainnet chain",
	}
}

// resolveChain returns the chain named by --chain, or the selected one.
func resolveChain(deps Deps, c *cli.Command) (chainregistry.Chain, error) {
	if slug := c.String("chain"); slug != "" {
		return deps.Selection.SelectByRoute(slug)
	}

	chain, ok := deps.Selection.Current()
	if !ok {
		return chainregistry.Chain{}, fmt.Errorf("%w: no chain selected", chainregistry.ErrChainNotFound)
	}
	return chain, nil
}

// output renders v in the format chosen by --output.
func output(c *cli.Command, v any) error {
	w := c.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	return render(w, c.String("output"), v)
}

func render(w io.Writer, format string, v any) error {
	if format == "yaml" {
		// Round trip through JSON so yaml keys match the API field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}

		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
