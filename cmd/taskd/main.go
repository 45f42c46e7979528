package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"taskd/internal/config"
	"taskd/internal/httpmw"
	"taskd/internal/kv"
	"taskd/internal/ops"
	"taskd/internal/task"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "taskd",
		Short: "taskd — single-user task list daemon",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), config.FromEnv(cfg))
		},
	}

	backupCmd := &cobra.Command{
		Use:   "backup <archive.tar.gz>",
		Short: "Archive the task store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = config.FromEnv(cfg)
			return ops.Backup(cfg.Storage, args[0])
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <archive.tar.gz>",
		Short: "Restore the task store from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = config.FromEnv(cfg)
			return ops.Restore(cfg.Storage, args[0])
		},
	}

	rootCmd.AddCommand(serveCmd, backupCmd, restoreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}

	list, err := task.NewList(ctx, task.NewStore(store, cfg.Storage.Key))
	if err != nil {
		return err
	}
	if warn := list.LoadWarning(); warn != nil {
		log.Printf("starting with an empty list: %v", warn)
	}

	mux := http.NewServeMux()
	task.NewHandler(list).Register(mux)

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(log.Default()),
		httpmw.WithAccessLog(log.Default()),
	)

	log.Printf("taskd listening on %s", cfg.Server.Addr)
	return http.ListenAndServe(cfg.Server.Addr, handler)
}

func openStore(cfg config.Storage) (kv.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return kv.NewFile(cfg.Dir)
	case "sqlite":
		return kv.OpenSQLite(cfg.Path)
	case "memory":
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
