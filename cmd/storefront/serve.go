package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx = logging.IntoContext(ctx, l)

	store, err := openStore(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeQuietly(l, "store", store.Close)

	var products service.ProductResolver = store
	ready := map[string]httpserver.Pinger{"store": store}
	if cfg.ProductSource == config.ProductsFromES {
		es, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword}, l)
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		products = &search.ProductIndex{Client: es, Index: cfg.ESProductIndex}
	}

	var sessionStore session.Store
	switch cfg.SessionDriver {
	case config.SessionsRedis:
		rs, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		sessionStore = rs
		ready["redis"] = rs
	default:
		sessionStore = session.NewMemoryStore(cfg.SessionTTL)
	}
	defer closeQuietly(l, "sessions", sessionStore.Close)

	m := metrics.New()

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
		l.Info("kafka_producer_ready", "brokers", cfg.KafkaBrokers)
	}
	publisher = events.Observe(publisher, func(topic string) {
		m.EventFailures.WithLabelValues(topic).Inc()
	})
	defer closeQuietly(l, "kafka", publisher.Close)

	forms := &service.FormService{Forms: store, Events: publisher}
	if cfg.SendGridAPIKey != "" {
		forms.Mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.ContactMailFrom, cfg.ContactMailTo)
	}

	sessions := &session.Manager{
		Store:  sessionStore,
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	}

	deps := &httpserver.Deps{
		Cart: &httpserver.CartHTTP{Svc: &service.CartService{
			Carts:      store,
			Products:   products,
			Events:     publisher,
			OnConflict: m.CartConflicts.Inc,
		}},
		Account: &httpserver.AccountHTTP{
			Svc:      &service.AccountService{Users: store, Events: publisher},
			Sessions: sessions,
		},
		Checkout: &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{
			Gateway: payment.NewRazorpay(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
			Events:  publisher,
		}},
		Forms:    &httpserver.FormsHTTP{Svc: forms},
		Pages:    &httpserver.PagesHTTP{Dir: cfg.StaticDir},
		Sessions: sessions,
		Metrics:  m,
		CSRF:     csrf.Config{Secure: cfg.CookieSecure},
		Ready:    ready,
	}
	e := httpserver.New(l, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	l.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server_shutdown_error", "error", err)
	}
	l.Info("shutdown_complete")
	return nil
}

func closeQuietly(l *slog.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		l.Error("close_error", "resource", name, "error", err)
	}
}
