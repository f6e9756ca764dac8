package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shaftlab/shaftdb/internal/server"
	"github.com/shaftlab/shaftdb/internal/vocab"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only REST API",
	Long: `Start the HTTP server on the configured address.

Endpoints under /api/v1: shafts, shafts/:id, shafts/search, compare,
manufacturers, stats, progression. Liveness at /healthz.

Vocabulary packs are watched while the server runs; edits are recompiled
and logged without a restart. SIGINT or SIGTERM shuts down gracefully.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) {
	addr := cfg.ListenAddr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	// The watcher keeps pack edits honest while the server runs: bad saves
	// are logged and the last good registry stays in place.
	watcher, err := vocab.Watch(rootCtx, cfg.VocabPath(), logger)
	if err != nil {
		WarnError("vocab watcher disabled: %v", err)
	} else {
		logger.Info("watching vocab packs",
			zap.String("dir", cfg.VocabPath()),
			zap.Int("packs", watcher.Registry().Len()))
	}

	srv := server.New(store, logger)
	if err := srv.Run(rootCtx, addr); err != nil {
		FatalError("%v", err)
	}
	if watcher != nil {
		<-watcher.Done()
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config)")
	rootCmd.AddCommand(serveCmd)
}
