// Package cli implements the calbridge command-line interface.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/calbridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/consent"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/google/calendar"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/notify"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/publish"
	keyringstore "github.com/custodia-labs/calbridge/internal/adapters/driven/storage/keyring"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/calbridge/internal/adapters/driving/httpd"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/core/services"
	"github.com/custodia-labs/calbridge/internal/logger"
	mailnorm "github.com/custodia-labs/calbridge/internal/normalisers/mail"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	dataDir   string
	verbose   bool
)

// Package-level services wired by initServices and shared by subcommands.
var (
	configStore      driven.ConfigStore
	syncService      driving.SyncService
	authService      driving.AuthService
	assistantService driving.AssistantService
	results          *publish.Fanout
	hub              *httpd.Hub
	metaStore        *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "calbridge",
	Short: "One-click mail-to-calendar sync agent",
	Long: `Calbridge mediates one-time delegated access to Google Calendar.

It brokers a single interactive consent per session, queues event
submissions that arrive while consent is pending, and keeps a card to
remote event mapping so repeat submissions update instead of duplicate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if syncService != nil {
			return nil
		}
		return initServices(cmd.Context())
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if metaStore != nil {
			_ = metaStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.calbridge)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.calbridge/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the driven adapters into the core services.
func initServices(ctx context.Context) error {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	metaStore, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening data store: %w", err)
	}

	var tokens driven.TokenStore = metaStore.TokenStore()
	if cfg.GetBool(configfile.KeyUseKeyring) {
		tokens = keyringstore.NewTokenStore()
	}

	flow := consent.NewFlow(consent.Config{
		ClientID: cfg.GetString(configfile.KeyOAuthClientID),
		Scopes:   splitScopes(cfg.GetString(configfile.KeyOAuthScopes)),
	})

	broker := services.NewTokenBroker(flow, tokens, services.BrokerConfig{
		TokenTTL:       time.Duration(cfg.GetInt(configfile.KeyTokenTTL)) * time.Second,
		ConsentTimeout: time.Duration(cfg.GetInt(configfile.KeyConsentTimeout)) * time.Second,
	})
	if err := broker.Rehydrate(ctx); err != nil {
		logger.Warn("could not rehydrate stored token: %v", err)
	}
	authService = broker

	gateway := calendar.NewGateway(calendar.WithTimeZone(cfg.GetString(configfile.KeyTimeZone)))

	hub = httpd.NewHub()
	results = publish.NewFanout(hub, notify.NewLogPublisher())

	syncService = services.NewSyncCoordinator(broker, gateway, metaStore.MappingStore(), results)

	if apiKey := cfg.GetString(configfile.KeyLLMAPIKey); apiKey != "" {
		llm, err := gemini.NewLLMService(gemini.Config{
			APIKey: apiKey,
			Model:  cfg.GetString(configfile.KeyLLMModel),
		})
		if err != nil {
			return fmt.Errorf("configuring language model: %w", err)
		}
		assistantService = services.NewAssistantService(llm, mailnorm.New())
	}

	return nil
}

// splitScopes parses a space-separated scope list. Empty input falls back
// to the consent package default.
func splitScopes(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}
