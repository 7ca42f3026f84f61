package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dgellow/auth-front/internal/config"
	"github.com/dgellow/auth-front/internal/flow"
	"github.com/dgellow/auth-front/internal/idp"
	"github.com/dgellow/auth-front/internal/log"
	"github.com/dgellow/auth-front/internal/server"
	"github.com/dgellow/auth-front/internal/session"
)

var BuildVersion = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *version {
		fmt.Println(BuildVersion)
		return
	}

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.LogError("Failed to load config: %v", err)
		os.Exit(1)
	}

	provider, err := idp.NewProvider(cfg)
	if err != nil {
		log.LogError("Failed to create provider: %v", err)
		os.Exit(1)
	}

	sessions := session.NewManager([]byte(cfg.SecretKey), session.DefaultTTL)
	handlers := server.NewHandlers(sessions, provider.Type())
	controller := flow.NewController(provider, []byte(cfg.SecretKey), sessions, handlers)
	router := server.NewRouter(controller, handlers, sessions)
	httpServer := server.NewHTTPServer(router, cfg.Addr)

	clientIDHint := cfg.ClientID
	if len(clientIDHint) > 12 {
		clientIDHint = clientIDHint[:12] + "..."
	}
	log.LogInfoWithFields("main", "Starting auth-front", map[string]any{
		"version":      BuildVersion,
		"provider":     provider.Type(),
		"addr":         cfg.Addr,
		"redirect_uri": cfg.RedirectURI,
		"client_id":    clientIDHint,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.LogError("Server error: %v", err)
		os.Exit(1)
	}
}
