package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopbot/internal/cache"
	"github.com/ziadkadry99/shopbot/internal/catalog"
	"github.com/ziadkadry99/shopbot/internal/chat"
	"github.com/ziadkadry99/shopbot/internal/config"
	"github.com/ziadkadry99/shopbot/internal/copilot"
	"github.com/ziadkadry99/shopbot/internal/db"
	"github.com/ziadkadry99/shopbot/internal/embeddings"
	"github.com/ziadkadry99/shopbot/internal/intent"
	"github.com/ziadkadry99/shopbot/internal/llm"
	"github.com/ziadkadry99/shopbot/internal/ratelimit"
	"github.com/ziadkadry99/shopbot/internal/server"
	"github.com/ziadkadry99/shopbot/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the shopbot API server",
	Long:  `Starts the shopbot REST and websocket API server with the configured AI provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating AI provider: %w", err)
		}

		var responseCache *cache.Cache
		if cfg.Cache.Enabled {
			responseCache, err = cache.New(cfg.Cache.TTLDuration())
			if err != nil {
				return fmt.Errorf("creating cache: %w", err)
			}
		}

		var limiter *ratelimit.Limiter
		if cfg.RateLimit.Enabled {
			limiter, err = ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowDuration())
			if err != nil {
				return fmt.Errorf("creating rate limiter: %w", err)
			}
		}

		dbPath := filepath.Join(cfg.DataDir, "shopbot.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		sessions := session.NewManager(
			cfg.Session.TimeoutDuration(),
			cfg.Session.MaxHistory,
			session.WithPersister(database),
		)

		cp := copilot.NewClient(provider, responseCache, copilot.Options{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.AITimeoutDuration(),
			MaxHistory:  cfg.Session.MaxHistory,
		})

		catalogSvc := catalog.NewService()
		catalogSvc.SetMaxResults(cfg.Search.MaxResults)
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			embedder := embeddings.NewOpenAIEmbedder(key, embeddings.OpenAIModel(cfg.EmbeddingModel))
			if err := catalogSvc.BuildSemanticIndex(cmd.Context(), embedder); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: semantic search disabled: %v\n", err)
			}
		} else {
			fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY not set, semantic search disabled")
		}

		// Transport-level limiting covers HTTP callers; the handler
		// runs without its own limiter to avoid counting twice.
		handler := chat.NewHandler(nil, sessions, intent.NewClassifier(), cp)

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, limiter)

		r := srv.Router()
		chat.RegisterRoutes(r, handler)
		catalog.RegisterRoutes(r, catalogSvc, func(ctx context.Context, query string) (string, string) {
			res := cp.AnalyzeSearchIntent(ctx, query)
			return res.EnhancedQuery, res.Insights
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sweeper := session.NewSweeper(sessions, cfg.Session.SweepIntervalDuration())
		sweeper.Start(ctx)
		defer sweeper.Stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "shopbot v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured server port")
	rootCmd.AddCommand(serveCmd)
}
