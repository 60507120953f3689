package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/chainselect"
	"github.com/WHTechno/wsxplore/internal/config"
	"github.com/WHTechno/wsxplore/internal/handlers/cli"
	"github.com/WHTechno/wsxplore/internal/handlers/rest"
	"github.com/WHTechno/wsxplore/internal/infra/blockchain"
	"github.com/WHTechno/wsxplore/internal/infra/identity/keybase"
	"github.com/WHTechno/wsxplore/internal/infra/wallet/localkey"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
	"github.com/WHTechno/wsxplore/internal/pkg/telemetry"
	httpclient "github.com/WHTechno/wsxplore/internal/pkg/transport/http"
	"github.com/WHTechno/wsxplore/internal/pkg/transport/jsonrpc"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.ServiceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		if err := shutdownTelemetry(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "telemetry shutdown:", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	registry, err := chainregistry.Load(cfg.ChainsFile)
	if err != nil {
		return fmt.Errorf("load chains: %w", err)
	}
	selection := chainselect.New(registry)

	upstream := httpclient.NewClient(
		httpclient.WithTimeout(cfg.UpstreamTimeout),
		httpclient.WithRetryMax(cfg.UpstreamRetryMax),
		httpclient.WithUserAgent(cfg.UserAgent),
	)

	dialer := blockchain.NewDialer(upstream,
		blockchain.WithJSONRPCOptions(
			jsonrpc.WithTimeout(cfg.UpstreamTimeout),
			jsonrpc.WithRetryMax(cfg.UpstreamRetryMax),
		),
	)

	identity := keybase.New(upstream,
		keybase.WithBaseURL(cfg.KeybaseURL),
		keybase.WithCacheTTL(cfg.KeybaseTTL),
		keybase.WithRateLimit(rate.Limit(cfg.KeybaseRate), max(1, int(math.Ceil(cfg.KeybaseRate)))),
	)

	data := chaindata.New(dialer,
		chaindata.WithIdentityResolver(identity),
		chaindata.WithUptimeBlocks(cfg.UptimeBlocks),
		chaindata.WithLogoConcurrency(cfg.LogoConcurrency),
	)

	provider, err := newWalletProvider(cfg.WalletKey, registry.All())
	if err != nil {
		return err
	}

	wallet := walletsvc.New(provider, data,
		walletsvc.WithDefaultChainID(cfg.WalletDefaultChain),
		walletsvc.WithChainLookup(registry),
		walletsvc.WithSelection(selection),
	)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := rest.NewHandler(registry, selection, data, wallet,
		rest.WithPollInterval(cfg.BlocksPollInterval),
		rest.WithAllowedOrigins(cfg.CORSOrigins...),
	)
	server := rest.NewServer(cfg.HTTPAddr, rest.NewRouter(handler), cfg.ShutdownTimeout)

	logger.Debug(ctx, "wsxplore ready",
		"chains", len(registry.All()),
		"wallet", wallet.IsAvailable(),
	)

	return cli.Run(ctx, cli.Deps{
		Registry:  registry,
		Selection: selection,
		Data:      data,
		Wallet:    wallet,
		Server:    server,
	})
}

// newWalletProvider builds the local key provider with every registry chain
// pre-registered. The provider stays a nil interface when no key is
// configured, so the wallet reports itself as unavailable.
func newWalletProvider(key string, chains []chainregistry.Chain) (walletsvc.Provider, error) {
	if key == "" {
		return nil, nil
	}

	infos := make([]walletsvc.ChainInfo, 0, len(chains))
	for _, c := range chains {
		infos = append(infos, walletsvc.ToChainInfo(c))
	}

	p, err := localkey.New(key, localkey.WithChains(infos...))
	if err != nil {
		return nil, fmt.Errorf("load wallet key: %w", err)
	}

	return p, nil
}
