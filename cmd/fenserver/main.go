package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fenblit/server"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides the config file)")
	configPath := flag.String("config", "", "JSON config file")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	pretty := flag.Bool("pretty", false, "Human-readable console logs instead of JSON")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	if *pretty {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := server.DefaultConfig()
	if *configPath != "" {
		if cfg, err = server.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	srv := server.New(cfg, log).HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
