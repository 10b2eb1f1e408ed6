package main

import (
	"fmt"
	"os"

	"taskflow/internal/config"
	"taskflow/internal/database"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFile string
	config     *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	if c.configFile != "" {
		if err := os.Setenv("CONFIG_FILE", c.configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.config = cfg
	return cfg, nil
}

func (c *commandContext) openDatabase() (*database.DatabasePool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	pool, err := database.NewDatabasePool(database.PoolConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.AutoMigrate(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return pool, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	serve := newServeCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "TaskFlow task and content planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: serve.RunE,
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFile, "config", "c", "", "TOML configuration file")
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(newMigrateCommand(ctx))
	return rootCmd
}
