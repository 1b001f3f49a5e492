// Package main - Entry point for the kuntur-store server
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"kuntur-store/api"
	"kuntur-store/internal/config"
	"kuntur-store/internal/logging"
	"kuntur-store/rate"
	"kuntur-store/store"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "server address (overrides config)")
	cfgFile := flag.String("config", "", "config file path")
	memory := flag.Bool("memory", false, "use the in-memory store instead of Postgres")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		config.Set(loaded)
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("initialize logging: %v", err)
	}
	defer logging.Sync()

	ctx := context.Background()

	var st store.Store
	if *memory {
		st = store.NewMemory()
	} else {
		pg, err := store.OpenPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		if err := store.EnsureSchema(ctx, pg.DB()); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		st = pg
	}
	defer st.Close()

	rates := rate.NewCached(
		rate.NewBinanceP2P(cfg.Rate.Endpoint, time.Duration(cfg.Rate.TimeoutSeconds)*time.Second),
		time.Duration(cfg.Rate.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Rate.FallbackCacheTTLSeconds)*time.Second,
	)

	srv := api.NewServer(version, st, rates, api.UploadConfig{
		Directory:     cfg.Uploads.Directory,
		MaxSizeBytes:  cfg.Uploads.MaxSizeBytes,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv))

	fmt.Printf("kuntur-store v%s\n", version)
	fmt.Printf("   API: http://localhost%s/api\n", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		log.Fatal(err)
	}
}
