package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsdesk/internal/config"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/event"
	"newsdesk/internal/ingest"
	"newsdesk/internal/notify"
	"newsdesk/internal/prefs"
	"newsdesk/internal/seed"
	"newsdesk/internal/server"
	"newsdesk/internal/store"
	"newsdesk/internal/workflow"
)

var (
	logger *zap.Logger
	cfg    config.Config
)

// newRootCmd builds the command tree. Flag defaults come from cfg, so cfg must
// be loaded first.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "newsdesk",
		Short: "newsdesk - content selection and publishing desk for a newsroom",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg.LogJSON {
				logger, err = zap.NewProduction()
			} else {
				logger, err = zap.NewDevelopment()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	pf.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Address of Redis server (empty keeps notices and jobs in process)")
	pf.StringVar(&cfg.BadgerPath, "badger", cfg.BadgerPath, "Path to BadgerDB data directory (empty keeps flags in memory)")
	pf.StringVar(&cfg.AMQPURI, "amqp", cfg.AMQPURI, "RabbitMQ URI (empty disables events)")
	pf.StringVar(&cfg.Exchange, "exchange", cfg.Exchange, "RabbitMQ topic exchange for events")
	pf.StringVar(&cfg.DisplayTZ, "display-tz", cfg.DisplayTZ, "Time zone for schedule display strings")
	pf.StringVar(&cfg.DisplayTZLabel, "display-tz-label", cfg.DisplayTZLabel, "Label shown next to schedule times")
	pf.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Seed YAML file (empty uses the built-in dataset)")
	pf.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Emit JSON logs")

	root.AddCommand(newServerCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newSeedCmd())
	return root
}

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the API server and the ingestion worker",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				logger.Info("Shutting down...")
				cancel()
			}()

			display, err := displayFromConfig()
			if err != nil {
				logger.Fatal("Invalid display time zone", zap.Error(err))
			}

			data, err := loadSeed(time.Now(), display)
			if err != nil {
				logger.Fatal("Failed to load seed", zap.Error(err))
			}
			st, err := store.NewMemoryStore(data.Articles, data.Roundups, data.Stories)
			if err != nil {
				logger.Fatal("Failed to init store", zap.Error(err))
			}

			flags, err := prefs.OpenBadger(cfg.BadgerPath)
			if err != nil {
				logger.Fatal("Failed to open flag store", zap.Error(err))
			}
			defer flags.Close()

			var (
				feed  notify.Feed
				queue ingest.Queue
			)
			if cfg.RedisAddr != "" {
				rf, err := notify.NewRedisFeed(cfg.RedisAddr)
				if err != nil {
					logger.Fatal("Failed to init notice feed", zap.Error(err))
				}
				defer rf.Close()
				rq, err := ingest.NewRedisQueue(cfg.RedisAddr)
				if err != nil {
					logger.Fatal("Failed to init ingestion queue", zap.Error(err))
				}
				defer rq.Close()
				feed, queue = rf, rq
			} else {
				logger.Info("No Redis configured; notices and ingestion stay in process")
				feed, queue = notify.NewRecorder(), ingest.NewChanQueue(64)
			}

			var events event.Publisher = event.Nop{}
			if cfg.AMQPURI != "" {
				pub, err := event.NewRabbitPublisher(cfg.AMQPURI, cfg.Exchange, logger.Named("events"))
				if err != nil {
					logger.Fatal("Failed to init event publisher", zap.Error(err))
				}
				defer pub.Close()
				events = pub
			}

			dash, err := dashboard.New(dashboard.Options{
				Store:    st,
				Notifier: feed,
				Events:   events,
				Flags:    flags,
				Logger:   logger.Named("dashboard"),
				Display:  display,
			})
			if err != nil {
				logger.Fatal("Failed to init dashboard", zap.Error(err))
			}

			for i := 0; i < max(cfg.IngestWorkers, 1); i++ {
				w := ingest.NewWorker(queue, dash, logger.Named("ingest").With(zap.Int("worker", i)), cfg.ScrapeTimeout)
				go w.Start(ctx)
			}

			srv := server.NewServer(dash, feed, queue, logger.Named("http"))
			go func() {
				if err := srv.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
					logger.Error("Web server stopped", zap.Error(err))
					cancel()
				}
			}()

			logger.Info("Server running.", zap.String("addr", cfg.Addr), zap.Int("articles", len(data.Articles)))

			<-ctx.Done()

			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown failed", zap.Error(err))
			}
			logger.Info("Goodbye!")
		},
	}
	return cmd
}

var feedJob bool

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [url]",
		Short: "Queue a page (or with --feed, a whole feed) for ingestion",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if cfg.RedisAddr == "" {
				logger.Fatal("add needs a Redis queue; pass --redis or set " + config.RedisAddrEnv)
			}
			q, err := ingest.NewRedisQueue(cfg.RedisAddr)
			if err != nil {
				logger.Fatal("Failed to init queue", zap.Error(err))
			}
			defer q.Close()

			job := ingest.Job{Kind: ingest.JobPage, URL: args[0], EnqueuedAt: time.Now()}
			if feedJob {
				job.Kind = ingest.JobFeed
			}
			if err := q.Push(context.Background(), job); err != nil {
				logger.Fatal("Failed to queue job", zap.Error(err))
			}

			logger.Info("Job queued",
				zap.String("kind", string(job.Kind)),
				zap.String("url", job.URL))
		},
	}
	cmd.Flags().BoolVar(&feedJob, "feed", false, "Treat the URL as an RSS/Atom/JSON feed")
	return cmd
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate the seed dataset and print what it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := displayFromConfig()
			if err != nil {
				return err
			}
			data, err := loadSeed(time.Now(), display)
			if err != nil {
				return err
			}
			if _, err := store.NewMemoryStore(data.Articles, data.Roundups, data.Stories); err != nil {
				return fmt.Errorf("seed does not load: %w", err)
			}
			counts := map[string]int{}
			for _, a := range data.Articles {
				counts[string(a.Status)]++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "articles: %d (pending %d, review %d, rejected %d, published %d)\n",
				len(data.Articles), counts["pending"], counts["review"], counts["rejected"], counts["published"])
			fmt.Fprintf(cmd.OutOrStdout(), "roundups: %d\nstories: %d\n", len(data.Roundups), len(data.Stories))
			return nil
		},
	}
	return cmd
}

func displayFromConfig() (workflow.Display, error) {
	loc, err := cfg.Location()
	if err != nil {
		return workflow.Display{}, err
	}
	return workflow.Display{Location: loc, Label: cfg.DisplayTZLabel}, nil
}

func loadSeed(now time.Time, display workflow.Display) (seed.Data, error) {
	if cfg.SeedFile != "" {
		return seed.LoadFile(cfg.SeedFile, now, display)
	}
	return seed.Default(now, display)
}

func main() {
	var err error
	cfg, err = config.FromEnv()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
