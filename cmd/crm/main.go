package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamcrm/internal/config"
	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/handlers/api"
	"github.com/charleshuang3/teamcrm/internal/handlers/middleware"
	"github.com/charleshuang3/teamcrm/internal/handlers/staticfiles"
	"github.com/charleshuang3/teamcrm/internal/proxy"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

var (
	configPath *string
)

func main() {
	// .env is optional, it only fills the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	configPath = flag.String("c", os.Getenv("CONFIG_PATH"), "Path to configuration file")
	flag.Parse()
	if *configPath == "" {
		log.Fatal().Msg("Config path must be provided via CONFIG_PATH env var or -c flag")
	}

	// Load configuration
	cfg := config.LoadConfig(*configPath)
	cfg.Log.SetupLogging()

	// cron schedule
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	scheduler.Start()

	// Initialize database
	db, err := gormw.Open(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	relDB := db
	if cfg.RelationalDB != nil {
		relDB, err = gormw.Open(cfg.RelationalDB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open relational database")
		}
	}
	if err := relDB.MigrateRelational(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate relational database")
	}

	storage.RegisterInvitationExpirer(scheduler, db)

	files, err := filestore.New(&cfg.Files)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open file store")
	}

	backend := proxy.New(&cfg.Backend)

	// Set up Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(middleware.Metrics())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	crm := api.NewAPI(&cfg.Invitation, db, relDB, backend, files)
	crm.RegisterPublicHandlers(router.Group("/api"))

	authed := router.Group("/")
	if cfg.Auth.Enabled() {
		authn := middleware.NewAuthnMiddleware(&cfg.Auth, db)
		authed.Use(authn.Middleware())
	}
	crm.RegisterHandlers(authed.Group("/api"))

	if cfg.Files.Provider == filestore.ProviderLocal {
		staticfiles.RegisterHandlers(authed, cfg.Files.Dir)
	}

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 60,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	go func() {
		log.Info().Msgf("start server at %q", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down server")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Failed to shut down scheduler")
	}

	log.Info().Msg("shutting down")
}
