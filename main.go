package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"uam-backend/internal/assets"
	"uam-backend/internal/companies"
	"uam-backend/internal/dashboard"
	"uam-backend/internal/documents"
	"uam-backend/internal/licenses"
	"uam-backend/internal/locations"
	"uam-backend/internal/platform/auth"
	"uam-backend/internal/platform/db"
	"uam-backend/internal/reports"
	"uam-backend/internal/sections"
	"uam-backend/internal/transfers"
	"uam-backend/internal/users"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: mode must be dev or release (config/config.yaml)")
		return
	}
	logrus.WithField("mode", cfg.Mode).Info("starting")

	if cfg.Auth.Secret == "" {
		logrus.Fatal("auth.secret must be set")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer conn.Close()
	logrus.WithField("dbname", cfg.DB.DBName).Info("connected to database")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		// CORS is only needed while the frontend runs on its own dev server.
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.Auth.Secret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	// Login is the only route outside the auth middleware.
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn, secret, tokenTTL))

	protected := r.Group("/api/v1")
	protected.Use(auth.RequireAuth(secret))

	sections.RegisterRoutes(protected, sections.NewService(conn))
	locations.RegisterRoutes(protected, locations.NewService(conn))
	companies.RegisterRoutes(protected, companies.NewService(conn))
	users.RegisterRoutes(protected, users.NewService(conn))
	assets.RegisterRoutes(protected, assets.NewService(conn))
	transfers.RegisterRoutes(protected, transfers.NewService(conn))
	licenses.RegisterRoutes(protected, licenses.NewService(conn))
	documents.RegisterRoutes(protected, documents.NewService(conn, cfg.Storage.DocumentDir))
	reports.RegisterRoutes(protected, reports.NewService(assets.NewStore(conn), transfers.NewStore(conn)))
	dashboard.RegisterRoutes(protected, dashboard.NewService(dashboard.NewStore(conn)))

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	var certFile, keyFile string
	if cfg.Mode == "dev" {
		certFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/dev/%s", cfg.Certificate.Key)
	} else {
		certFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
		keyFile = fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
	}

	go func() {
		logrus.WithField("addr", cfg.Listen).Info("listening")
		var err error
		if cfg.Certificate.Cert == "" || cfg.Certificate.Key == "" {
			// Dev convenience: run plain HTTP when no certs are configured.
			err = srv.ListenAndServe()
		} else {
			err = srv.ListenAndServeTLS(certFile, keyFile)
		}
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("shutdown failed")
	}
}
