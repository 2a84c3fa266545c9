package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"turno/backend/internal/auth"
	"turno/backend/internal/config"
	"turno/backend/internal/notify"
	"turno/backend/internal/service/booking"
	"turno/backend/internal/service/providers"
	"turno/backend/internal/store"
	"turno/backend/internal/store/memory"
	"turno/backend/internal/store/postgres"
	httptransport "turno/backend/internal/transport/http"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "turno-server",
		Short: "Appointment booking service",
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)
			slog.SetDefault(log)

			log.Info("starting", slog.String("http_addr", cfg.HTTPAddr), slog.String("storage_driver", cfg.StorageDriver))

			stores, cleanup, err := openStores(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("store open failed", slog.Any("err", err))
				return err
			}
			defer cleanup()

			secret := cfg.JWTSecret
			if secret == "" {
				secret = randomSecret()
				log.Warn("jwt secret not configured; generated an ephemeral one, sessions will not survive restarts")
			}

			scheduler := notify.NewScheduler(nil, log)
			reminders := notify.NewReminders(scheduler, cfg.ReminderLead, cfg.ReminderClampDelay)

			providersSvc := providers.NewService(stores.providers, log)
			bookingSvc := booking.NewService(stores.appointments, stores.providers, reminders, cfg.NotifyTimeout, log)
			authSvc := auth.NewService(stores.users, secret, cfg.TokenTTL, log)

			if n, err := providersSvc.SeedIfEmpty(cmd.Context()); err != nil {
				log.Warn("provider seeding failed", slog.Any("err", err))
			} else if n > 0 {
				log.Info("seeded default providers", slog.Int("count", n))
			}

			server := httptransport.NewServer(httptransport.Options{
				Booking:   bookingSvc,
				Providers: providersSvc,
				Auth:      authSvc,
				JWTSecret: secret,
				RateLimit: httptransport.RateLimitOptions{
					PerSecond: cfg.RateLimitPerSecond,
					Burst:     cfg.RateLimitBurst,
				},
				Log: log,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(cfg.HTTPAddr)
			}()

			log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))

			select {
			case <-ctx.Done():
				log.Info("shutdown signal received")
				shutdown(log, server, cfg.ShutdownTimeout)
				return nil
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped with error", slog.Any("err", err))
					return err
				}
				return nil
			}
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed default providers into an empty directory and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			stores, cleanup, err := openStores(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := providers.NewService(stores.providers, log).SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				log.Info("provider directory not empty, nothing seeded")
			} else {
				log.Info("seeded default providers", slog.Int("count", n))
			}
			return nil
		},
	}
}

type storeSet struct {
	appointments store.AppointmentRepository
	providers    store.ProviderRepository
	users        store.UserRepository
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (storeSet, func(), error) {
	if cfg.StorageDriver == "memory" {
		s := memory.NewStore()
		return storeSet{
			appointments: s.Appointments(),
			providers:    s.Providers(),
			users:        s.Users(),
		}, func() {}, nil
	}

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return storeSet{}, nil, err
	}
	if err := postgres.Init(ctx, db); err != nil {
		_ = postgres.Close(db)
		return storeSet{}, nil, err
	}

	cleanup := func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}
	return storeSet{
		appointments: postgres.NewAppointmentRepo(db, store.NewSnapshotHub()),
		providers:    postgres.NewProviderRepo(db),
		users:        postgres.NewUserRepo(db),
	}, cleanup, nil
}

func shutdown(log *slog.Logger, server *httptransport.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn("http shutdown did not finish cleanly", slog.Any("err", err))
		return
	}
	log.Info("http server stopped")
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)})).With(
		slog.String("service", "turno-server"),
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
