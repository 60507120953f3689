package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

// errWalletDisabled is returned by wallet commands when no wallet service
// is configured.
var errWalletDisabled = errors.New("wallet support is disabled")

// formattedBalance is a balance next to its display amount.
type formattedBalance struct {
	chaindata.Balance
	Display string `json:"display"`
}

func formatBalances(chain chainregistry.Chain, balances []chaindata.Balance) []formattedBalance {
	decimals := int(walletsvc.ToChainInfo(chain).StakeCurrency.CoinDecimals)

	out := make([]formattedBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, formattedBalance{Balance: b, Display: walletsvc.FormatBalance(b, decimals)})
	}
	return out
}

// walletCommand groups the wallet subcommands.
//
// Usage example:
//
//	wsxplore wallet balance --chain cosmoshub-4
func walletCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "wallet",
		Description: "Use the configured wallet key.",
		Usage:       "Connects the wallet and reads its balances.",
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if deps.Wallet == nil {
				return ctx, errWalletDisabled
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			walletConnectCommand(deps),
			walletAddChainsCommand(deps),
			walletBalanceCommand(deps),
		},
	}
}

func walletConnectCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Description: "Connect the wallet and print the session address.",
		Usage:       "Enables the default chain and prints its first account.",
		Action: func(ctx context.Context, c *cli.Command) error {
			if _, err := deps.Wallet.Connect(ctx); err != nil {
				return err
			}
			return output(c, deps.Wallet.Status())
		},
	}
}

func walletAddChainsCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "add-chains",
		Description: "Register every known chain with the wallet.",
		Usage:       "Suggests each chain to the wallet and reports how many failed.",
		Action: func(ctx context.Context, c *cli.Command) error {
			result := deps.Wallet.AddAllChains(ctx, deps.Registry.All())
			return output(c, result)
		},
	}
}

func walletBalanceCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Print the wallet balances on a chain.",
		Usage:       "Connects the wallet and prints its balances with display amounts.",
		Flags:       []cli.Flag{chainFlag()},
		Action: chainAction(deps, func(ctx context.Context, c *cli.Command, chain chainregistry.Chain) (any, error) {
			if _, err := deps.Wallet.Connect(ctx); err != nil {
				return nil, err
			}

			balances, err := deps.Wallet.GetBalance(ctx, chain)
			if err != nil {
				return nil, fmt.Errorf("balance on %s: %w", chain.ChainID, err)
			}

			return formatBalances(chain, balances), nil
		}),
	}
}
