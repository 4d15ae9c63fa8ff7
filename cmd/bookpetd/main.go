// Command bookpetd serves the pet simulation over HTTP for companion
// apps: reading trackers post finished sessions, minigame surfaces start
// and complete play sessions, and any client can drive the pet directly.
package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"time"

	"bookpet/internal/config"
	"bookpet/internal/game"
	"bookpet/internal/httpapi"
	"bookpet/internal/minigame"
	"bookpet/internal/shop"
	"bookpet/internal/store"
)

func main() {
	configPath := flag.String("config", "bookpetd.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	st, err := store.NewByEngine(cfg.Store.Engine, cfg.Store.Path)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}
	if closer, ok := st.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("store close failed: %v", err)
			}
		}()
	}

	svc := game.NewService(st, shop.Default())

	games := minigame.NewManager(minigame.DefaultGames(), st, svc.CreditCoins)
	games.SetLevelLookup(svc.Level)

	done := make(chan struct{})
	defer close(done)
	go svc.RunDecay(done, cfg.Decay.Interval)
	go games.RunSweeper(done, cfg.Games.SweepInterval)

	router := httpapi.NewRouter(httpapi.NewHandler(svc, games))
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("bookpetd listening on %s (store=%s path=%s)", cfg.Server.Addr, cfg.Store.Engine, cfg.Store.Path)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
