package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/localconnect/catalog-manager/config"
	"github.com/localconnect/catalog-manager/internal/store"
	"github.com/localconnect/catalog-manager/log"
	"github.com/spf13/cobra"
)

func migrateDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	slog.SetDefault(log.New(cfg.Logger, os.Stdout))

	db := cfg.DB
	db.Automigrate = true
	s, err := store.New(context.Background(), db)
	if err != nil {
		return err
	}
	s.Close()
	return nil
}
