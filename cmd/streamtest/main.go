// streamtest connects to the public market-data channel and streams parsed
// events to the console. With --cache-host set it also keeps a local
// snapshot cache: every book event is upserted, and when the stream lags it
// reconciles from the cached snapshots instead of exiting. Usage:
//
//	go run ./cmd/streamtest --market-ws wss://ws-subscriptions-clob.example.com/ws/market --asset 123,456
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cloblabs/clob-go/clob"
	"github.com/cloblabs/clob-go/internal/config"
	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/model"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/snapshotcache"
	"github.com/cloblabs/clob-go/internal/submux"
)

func main() {
	marketWS := flag.String("market-ws", "wss://ws-subscriptions-clob.polymarket.com/ws/market", "market channel WebSocket URL")
	assets := flag.String("asset", "", "comma-separated asset ids to subscribe to")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	cacheHost := flag.String("cache-host", "", "optional Postgres host for the local snapshot cache")
	cachePort := flag.Int("cache-port", 5432, "snapshot cache Postgres port")
	cacheName := flag.String("cache-name", "clob", "snapshot cache database name")
	cacheUser := flag.String("cache-user", "clob", "snapshot cache database user")
	cachePassword := flag.String("cache-password", "", "snapshot cache database password")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	assetIDs := splitNonEmpty(*assets)
	if len(assetIDs) == 0 {
		logger.Error("at least one --asset id is required")
		os.Exit(1)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		logger.Error("generate ephemeral signer key", "error", err)
		os.Exit(1)
	}

	cfg := config.DefaultClientConfig(137)
	cfg.Hosts.MarketWSURL = *marketWS

	client, err := clob.NewUnauthenticatedClient(cfg, signer.NewSigner(key), nil, logger)
	if err != nil {
		logger.Error("create client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cache *snapshotcache.Store
	if *cacheHost != "" {
		cache, err = snapshotcache.Connect(ctx, config.DBConfig{
			Host: *cacheHost, Port: *cachePort, Name: *cacheName,
			User: *cacheUser, Password: *cachePassword,
		})
		if err != nil {
			logger.Error("connect snapshot cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		if err := cache.EnsureSchema(ctx); err != nil {
			logger.Error("ensure snapshot cache schema", "error", err)
			os.Exit(1)
		}
		logger.Info("snapshot cache enabled", "host", *cacheHost)
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	stream, err := client.SubscribeMarket(submux.SubscribeRequest{
		Keys:        assetIDs,
		Want:        interest.Book | interest.PriceChange | interest.BestBidAsk | interest.LastTradePrice | interest.TickSizeChange,
		InitialDump: true,
	})
	if err != nil {
		logger.Error("subscribe market channel", "error", err)
		os.Exit(1)
	}

	logger.Info("streaming started - press Ctrl+C to stop", "assets", assetIDs)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("connection state", "state", client.MarketConnectionState())
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown complete")
			return
		default:
		}

		msg, err := stream.Next()
		if err != nil {
			var lagErr *submux.LaggedError
			if errors.As(err, &lagErr) && cache != nil {
				reconcileFromCache(ctx, logger, cache, assetIDs, lagErr.Count)
				continue
			}
			logger.Error("stream error", "error", err)
			return
		}
		if book, ok := msg.(model.BookEvent); ok && cache != nil {
			if err := cache.Put(ctx, book.OrderbookSnapshot); err != nil {
				logger.Warn("cache snapshot", "asset", book.OrderbookSnapshot.AssetID, "error", err)
			}
		}
		if *verbose {
			data, _ := json.MarshalIndent(msg, "", "  ")
			fmt.Printf("[%s] %s\n", msg.Kind(), data)
		} else {
			fmt.Printf("[%s] keys=%v\n", msg.Kind(), msg.Keys())
		}
	}
}

// reconcileFromCache replaces the deltas a lagged consumer missed with the
// newest cached snapshot per asset: every book event carries full book
// state, so the latest snapshot supersedes everything dropped.
func reconcileFromCache(ctx context.Context, logger *slog.Logger, cache *snapshotcache.Store, assetIDs []string, missed uint64) {
	logger.Warn("stream lagged; reconciling from snapshot cache", "missed", missed)
	for _, assetID := range assetIDs {
		snap, ok, err := cache.Get(ctx, assetID)
		if err != nil {
			logger.Error("read cached snapshot", "asset", assetID, "error", err)
			continue
		}
		if !ok {
			logger.Warn("no cached snapshot yet", "asset", assetID)
			continue
		}
		fmt.Printf("[reconciled] asset=%s bids=%d asks=%d ts=%s\n",
			snap.AssetID, len(snap.Bids), len(snap.Asks), snap.Timestamp)
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
