package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/secops-dashboard/internal/airtable"
	"github.com/yourorg/secops-dashboard/internal/config"
	"github.com/yourorg/secops-dashboard/internal/dashboard"
	"github.com/yourorg/secops-dashboard/internal/httpapi"
	"github.com/yourorg/secops-dashboard/internal/reports"
	"github.com/yourorg/secops-dashboard/internal/source"
	"github.com/yourorg/secops-dashboard/internal/store"
)

func main() {
	// Load environment variables from .env files if present. This helps local dev.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := config.Load()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var (
		src source.DataSource
		st  *store.Store
	)
	if cfg.AirtableToken != "" {
		client := airtable.New(cfg.AirtableBaseURL, cfg.AirtableBaseID, cfg.AirtableToken)
		if err := client.TestConnection(ctx); err != nil {
			log.WithError(err).Warn("table API connection test failed; continuing anyway")
		}
		src = client
		log.Info("reading from table API source")
	} else {
		var err error
		st, err = store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal(err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			if isInsufficientPrivilege(err) {
				log.WithError(err).Warn("ensure schema skipped due insufficient privilege")
			} else {
				log.Fatal(err)
			}
		}
		src = st
	}

	var archive *reports.Archive
	if cfg.S3Endpoint != "" {
		a, err := reports.New(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3UseSSL)
		if err != nil {
			log.Fatal(err)
		}
		archive = a
	}

	svc := dashboard.New(src, log)
	refresher := dashboard.NewRefresher(svc, cfg.RefreshInterval, log)
	go refresher.Run(ctx)

	api := httpapi.NewServer(svc, refresher, st, archive, cfg.ReportsBucket, log)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Handler()}
	go func() {
		<-ctx.Done()
		shctx, shcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shcancel()
		_ = server.Shutdown(shctx)
	}()

	log.WithFields(logrus.Fields{
		"addr":     cfg.HTTPAddr,
		"interval": cfg.RefreshInterval.String(),
	}).Info("dashboard starting")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func isInsufficientPrivilege(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42501"
}
