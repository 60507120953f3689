package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// chainAction wraps fn so it receives the resolved chain.
func chainAction(deps Deps, fn func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		chain, err := resolveChain(deps, c)
		if err != nil {
			return err
		}

		v, err := fn(ctx, c, chain)
		if err != nil {
			return err
		}

		return output(c, v)
	}
}

// chainsCommand lists the registered chains.
//
// Usage example:
//
//	wsxplore chains --network testnet
func chainsCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "chains",
		Description: "List the registered chains.",
		Usage:       "Lists every chain, or the chains of one network.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "network",
				Usage: "Network to list (mainnet, testnet). Lists both when empty",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			switch n := chainregistry.Network(c.String("network")); n {
			case "":
				return output(c, deps.Registry.All())
			case chainregistry.Mainnet, chainregistry.Testnet:
				return output(c, deps.Registry.Network(n))
			default:
				return fmt.Errorf("unknown network %q", n)
			}
		},
	}
}

// blocksCommand prints the latest blocks.
//
// Usage example:
//
//	wsxplore blocks --chain cosmoshub-4
func blocksCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "blocks",
		Description: "Show the latest blocks of a chain.",
		Usage:       "Prints the most recent blocks, newest first.",
		Flags:       []cli.Flag{chainFlag()},
		Action: chainAction(deps, func(ctx context.Context, _ *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.GetLatestBlocks(ctx, chain)
		}),
	}
}

// transactionsCommand prints a page of recent transactions.
//
// Usage example:
//
//	wsxplore txs --chain axone-1 --page 2
func transactionsCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "txs",
		Description: "Show recent transactions of a chain.",
		Usage:       "Prints one page of recent transactions.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number, starting at 1",
				Value: 1,
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.GetTransactions(ctx, chain, int(c.Int("page")))
		}),
	}
}

// transactionCommand prints one transaction.
//
// Usage example:
//
//	wsxplore tx --chain cosmoshub-4 --hash 0A1B...
func transactionCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "tx",
		Description: "Show a transaction by hash.",
		Usage:       "Prints the transaction with the given hash.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Transaction hash",
				Required: true,
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.SearchTransaction(ctx, chain, c.String("hash"))
		}),
	}
}

// validatorsCommand prints the validator set or its status counts.
//
// Usage example:
//
//	wsxplore validators --chain cosmoshub-4 --stats
func validatorsCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "validators",
		Description: "Show the validators of a chain.",
		Usage:       "Prints every validator, or only the counts per status with --stats.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print the counts per status instead of the list",
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			if c.Bool("stats") {
				return deps.Data.GetValidatorStats(ctx, chain)
			}
			return deps.Data.GetValidators(ctx, chain)
		}),
	}
}

// uptimeCommand prints the recent signing record of a validator.
//
// Usage example:
//
//	wsxplore uptime --chain cosmoshub-4 --operator cosmosvaloper1...
func uptimeCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "uptime",
		Description: "Show the recent block signing record of a validator.",
		Usage:       "Prints which of the most recent blocks the validator signed.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.StringFlag{
				Name:     "operator",
				Usage:    "Validator operator address",
				Required: true,
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.GetValidatorUptime(ctx, chain, c.String("operator"))
		}),
	}
}

// balanceCommand prints the balances of an address.
//
// Usage example:
//
//	wsxplore balance --chain cosmoshub-4 --address cosmos1...
func balanceCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Show the balances of an address.",
		Usage:       "Prints every denom held by the address.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address",
				Required: true,
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.SearchAddress(ctx, chain, c.String("address"))
		}),
	}
}

// searchCommand resolves a free-form query to a transaction or an address.
//
// Usage example:
//
//	wsxplore search --chain cosmoshub-4 --query cosmos1...
func searchCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "search",
		Description: "Search a transaction hash or an address.",
		Usage:       "Looks the query up as a transaction hash first, then as an address.",
		Flags: []cli.Flag{
			chainFlag(),
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Transaction hash or address",
				Required: true,
			},
		},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.Search(ctx, chain, c.String("query"))
		}),
	}
}

// infoCommand prints the node info of a chain as the node returns it.
func infoCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "info",
		Description: "Show the node info of a chain.",
		Usage:       "Prints the raw node info.",
		Flags:       []cli.Flag{chainFlag()},
		Action: chainAction(deps, func(ctx context.Context, _ *cli.Command, chain chainregistry.Chain) (any, error) {
			return deps.Data.GetChainInfo(ctx, chain)
		}),
	}
}

// poolCommand prints the staking pool and its bonded ratio.
func poolCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "pool",
		Description: "Show the staking pool of a chain.",
		Usage:       "Prints bonded and not bonded tokens with the bonded ratio.",
		Flags:       []cli.Flag{chainFlag()},
		Action: chainAction(deps, func(ctx context.Context, _ *cli.Command, chain chainregistry.Chain) (any, error) {
			raw, err := deps.Data.GetStakingPool(ctx, chain)
			if err != nil {
				return nil, err
			}

			pool, err := chaindata.ParseStakingPool(raw)
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"pool":        pool,
				"bondedRatio": chaindata.BondedRatio(pool),
			}, nil
		}),
	}
}

// dashboardCommand prints the chain overview. Parts that failed are
// reported on stderr and left empty.
func dashboardCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "dashboard",
		Description: "Show the overview of a chain.",
		Usage:       "Prints the chain overview with its latest blocks and top validators.",
		Flags:       []cli.Flag{chainFlag()},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			dashboard, err := deps.Data.GetDashboard(ctx, chain)
			if err != nil {
				fmt.Fprintf(c.Root().ErrWriter, "partial dashboard: %v\n", err)
			}
			return dashboard, nil
		}),
	}
}
