package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sipeed/walletbot/pkg/blockchain"
	"github.com/sipeed/walletbot/pkg/channels"
	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/flow"
	"github.com/sipeed/walletbot/pkg/logger"
	"github.com/sipeed/walletbot/pkg/session"
	"github.com/sipeed/walletbot/pkg/store"
	"github.com/sipeed/walletbot/pkg/wallet"
)

const shutdownTimeout = 15 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Telegram bot (default)",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		logger.FatalCF("main", "Invalid configuration", map[string]any{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chains := connectChains(ctx, cfg)
	defer chains.Close()

	st, driver := store.OpenOrMemory(ctx, cfg)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.WarnCF("main", "Failed to close wallet store", map[string]any{"error": err.Error()})
		}
	}()

	sessions, backend := openSessions(cfg)
	defer sessions.Close()

	tg, err := channels.NewTelegramChannel(cfg.Telegram)
	if err != nil {
		logger.FatalCF("main", "Failed to create Telegram channel", map[string]any{"error": err.Error()})
	}

	ctrl := flow.NewController(cfg, tg, wallet.NewGenerator(), chains, st, sessions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tg.Run(gctx, ctrl)
	})

	if cfg.Gateway.Enabled {
		srv := setupGatewayHTTP(cfg, func() readiness {
			return readiness{
				Store:   driver,
				Session: backend,
				Chains:  chains.ListChains(),
			}
		})
		g.Go(func() error {
			logger.InfoCF("gateway", "Gateway HTTP server started", map[string]any{"addr": srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	logger.InfoCF("main", "walletbot started", map[string]any{
		"version": version,
		"store":   driver,
		"session": backend,
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.InfoC("main", "walletbot stopped")
	return nil
}

// connectChains dials every configured chain. A chain that cannot be reached
// stays disconnected and its balance queries fail per request.
func connectChains(ctx context.Context, cfg *config.Config) *blockchain.Client {
	client := blockchain.NewClient()
	for _, chain := range cfg.ChainList() {
		if err := client.AddChain(ctx, &chain); err != nil {
			logger.ErrorCF("main", "Chain unavailable", map[string]any{
				"chain": chain.Name,
				"error": err.Error(),
			})
		}
	}
	return client
}

// openSessions opens the configured prompt table, falling back to memory.
func openSessions(cfg *config.Config) (session.Table, string) {
	table, err := session.Open(cfg)
	if err != nil {
		logger.ErrorCF("main", "Session backend unavailable, falling back to memory", map[string]any{
			"backend": cfg.Session.Backend,
			"error":   err.Error(),
		})
		return session.NewMemoryTable(cfg.Session.TTL), config.SessionMemory
	}
	return table, cfg.Session.Backend
}
