package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commsdash/components/dashboard"
	"github.com/goliatone/go-commsdash/components/dashboard/gorouter"
	"github.com/goliatone/go-commsdash/components/dashboard/httpapi"
	"github.com/goliatone/go-commsdash/pkg/activity"
	"github.com/goliatone/go-commsdash/pkg/activity/usersink"
	"github.com/goliatone/go-commsdash/pkg/analytics"
	"github.com/goliatone/go-commsdash/pkg/goadmin"
	"github.com/goliatone/go-commsdash/pkg/metrics"
)

type serveCmd struct {
	Addr            string        `default:":8080" env:"COMMSDASH_ADDR" help:"Address of the dashboard server."`
	OpsAddr         string        `default:":9090" env:"COMMSDASH_OPS_ADDR" help:"Address of the metrics and plain HTTP API server."`
	BasePath        string        `default:"/admin" env:"COMMSDASH_BASE_PATH" help:"Mount point of the dashboard routes."`
	Manifest        string        `type:"existingfile" env:"COMMSDASH_MANIFEST" help:"Manifest overriding views and sections."`
	RemoteURL       string        `env:"COMMSDASH_REMOTE_URL" help:"Reporting API serving /collections/{entity}. Table views load from it when set."`
	RemoteAPIKey    string        `env:"COMMSDASH_REMOTE_API_KEY" help:"Bearer token for the reporting API."`
	Seed            uint64        `env:"COMMSDASH_SEED" help:"Generator seed. Zero picks one from the clock."`
	SessionTTL      time.Duration `default:"30m" env:"COMMSDASH_SESSION_TTL" help:"Idle time after which sessions are closed."`
	Activity        bool          `default:"true" negatable:"" env:"COMMSDASH_ACTIVITY" help:"Emit activity records for mutations."`
	ShutdownTimeout time.Duration `default:"10s" help:"Grace period for in-flight requests on shutdown."`

	Title       string            `default:"Communications Dashboard" env:"COMMSDASH_TITLE" help:"Shell title."`
	ThemeTokens map[string]string `name:"theme-token" help:"Shell CSS variables, e.g. --theme-token nav-bg=#0f172a."`
	LogoURL     string            `env:"COMMSDASH_LOGO_URL" help:"Logo shown above the navigation."`
}

func (cmd *serveCmd) theme() dashboard.ThemeProvider {
	if len(cmd.ThemeTokens) == 0 && cmd.LogoURL == "" {
		return nil
	}
	return dashboard.StaticTheme{
		Name:   "custom",
		Tokens: cmd.ThemeTokens,
		Assets: dashboard.ThemeAssets{Values: map[string]string{"logo": cmd.LogoURL}},
	}
}

func (cmd *serveCmd) Run(ctx context.Context, logger *logrus.Logger) error {
	registry := dashboard.NewRegistry()
	if cmd.Manifest != "" {
		doc, err := registry.LoadManifestFile(cmd.Manifest)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"manifest": doc.Source,
			"views":    len(doc.Views),
			"sections": len(doc.Sections),
		}).Info("manifest applied")
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	generator := dashboard.NewSeededGenerator(seed, time.Now)

	var loader dashboard.CollectionLoader
	if cmd.RemoteURL != "" {
		client, err := analytics.NewHTTPClient(analytics.HTTPConfig{BaseURL: cmd.RemoteURL, APIKey: cmd.RemoteAPIKey})
		if err != nil {
			return err
		}
		loader = analytics.Loader(client)
		logger.WithField("remote_url", cmd.RemoteURL).Info("table views load from reporting api")
	}

	broadcast := dashboard.NewBroadcastHook()
	prom := metrics.NewTelemetry(nil)
	telemetry := dashboard.MultiTelemetry{prom, dashboard.LogTelemetry{Logger: logger}}
	hooks := activity.Hooks{usersink.Hook{Sink: usersink.LogSink{Logger: logger}}}
	activityCfg := activity.Config{Enabled: cmd.Activity}

	service := dashboard.NewService(dashboard.Options{
		Registry:  registry,
		Generator: generator,
		Loader:    loader,
		RefreshHook: dashboard.MultiRefreshHook{
			broadcast,
			&dashboard.NotificationsHook{Client: dashboard.LogNotifications{Logger: logger}},
		},
		Telemetry:      telemetry,
		ActivityHooks:  hooks,
		ActivityConfig: activityCfg,
		Logger:         logger,
		SessionTTL:     cmd.SessionTTL,
	})
	service.StartJanitor(0)

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("commsdash: template renderer: %w", err)
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Title:    cmd.Title,
		BasePath: cmd.BasePath,
		Theme:    cmd.theme(),
	})
	executor := httpapi.NewExecutor(service, telemetry)

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        executor,
		Broadcast:  broadcast,
		BasePath:   cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("commsdash: register routes: %w", err)
	}

	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		Service:         service,
		MenuBuilder:     goadmin.LogMenuBuilder{Logger: logger},
		ActivityHooks:   hooks,
		ActivityConfig:  activityCfg,
	})
	if err != nil {
		return err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return fmt.Errorf("commsdash: admin bootstrap: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", prom.Handler())
	httpapi.Register(mux, "/api", &httpapi.Handlers{
		API:       executor,
		Sections:  service.Sections,
		Generator: generator,
	}, broadcast)
	ops := &http.Server{Addr: cmd.OpsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 2)
	go func() {
		if err := server.Serve(cmd.Addr); err != nil {
			errCh <- fmt.Errorf("commsdash: dashboard server: %w", err)
		}
	}()
	go func() {
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("commsdash: ops server: %w", err)
		}
	}()
	logger.WithFields(logrus.Fields{
		"dashboard": "http://localhost" + cmd.Addr + cmd.BasePath + "/dashboard",
		"ops":       cmd.OpsAddr,
		"seed":      seed,
	}).Info("commsdash ready")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.WithError(runErr).Error("server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	return errors.Join(
		runErr,
		server.Shutdown(shutdownCtx),
		ops.Shutdown(shutdownCtx),
		service.Shutdown(shutdownCtx),
	)
}
