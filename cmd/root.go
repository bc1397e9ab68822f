package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/config"
	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/store"
	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/throttle"
	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gnverifier",
	Short: "Verify scientific names against the Global Names Verifier",
	Long:  "Submits scientific names to the Global Names Verifier service and reports best matches, taxonomic status, and classification, with local caching and throttling.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if email, _ := cmd.Flags().GetString("email"); email != "" {
			cfg.Email = email
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newClient builds the API client from config. The local store always backs
// the throttle; it additionally backs the response cache when enabled.
func newClient(ctx context.Context) (gnverifier.Client, func(), error) {
	st, err := store.NewSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}

	opts := []gnverifier.Option{
		gnverifier.WithBaseURL(cfg.BaseURL),
		gnverifier.WithTimeout(cfg.Timeout()),
		gnverifier.WithThrottle(throttle.New(st, cfg.ThrottleInterval())),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, gnverifier.WithCache(st, cfg.CacheTTL()))
	}

	cleanup := func() {
		if _, err := st.DeleteExpired(ctx); err != nil {
			zap.L().Warn("cache cleanup failed", zap.Error(err))
		}
		_ = st.Close()
	}
	return gnverifier.NewClient(cfg.Email, opts...), cleanup, nil
}

func init() {
	rootCmd.PersistentFlags().String("email", "", "contact email sent in the User-Agent header")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
