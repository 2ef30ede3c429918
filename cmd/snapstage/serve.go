package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/snapstage/snapstage/internal/agent"
	"github.com/snapstage/snapstage/internal/bot"
	"github.com/snapstage/snapstage/internal/config"
	"github.com/snapstage/snapstage/internal/handlers"
	"github.com/snapstage/snapstage/internal/imaging"
	"github.com/snapstage/snapstage/internal/logger"
	"github.com/snapstage/snapstage/internal/quickactions"
	"github.com/snapstage/snapstage/internal/server"
	"github.com/snapstage/snapstage/internal/staging"
	"github.com/snapstage/snapstage/internal/version"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideStager,
			provideClassifier,
			providePipeline,
			provideAgentRunner,
			provideActionManager,
			provideBot,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewImagesHandler),
			provideServer,
		),
		fx.Invoke(
			startBot,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideStager(log *slog.Logger, cfg config.Config) (*staging.Stager, error) {
	return staging.New(log, cfg.Staging.Dir)
}

func provideClassifier() imaging.Classifier {
	return imaging.NewStaticClassifier()
}

func providePipeline(log *slog.Logger, stager *staging.Stager, classifier imaging.Classifier) *imaging.Pipeline {
	return imaging.NewPipeline(log, stager, classifier)
}

func provideAgentRunner(log *slog.Logger, cfg config.Config) (agent.Runner, error) {
	return agent.NewCLIRunner(
		log,
		cfg.Agent.Command,
		cfg.Agent.Args,
		cfg.Agent.WorkDir,
		time.Duration(cfg.Agent.TimeoutSeconds)*time.Second,
	)
}

func provideActionManager(log *slog.Logger, cfg config.Config) (*quickactions.Manager, error) {
	return quickactions.NewManager(log, cfg.Actions.CatalogPath)
}

func provideBot(log *slog.Logger, cfg config.Config, pipeline *imaging.Pipeline, runner agent.Runner, actions *quickactions.Manager) (*bot.Bot, error) {
	return bot.New(log, cfg.Telegram, cfg.Actions.KeyboardColumns, pipeline, runner, actions)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.ServerHandlers)
}

func startBot(lc fx.Lifecycle, b *bot.Bot) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { b.Start(ctx); return nil },
		OnStop:  func(_ context.Context) error { cancel(); b.Shutdown(); return nil },
	})
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting snapstage %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
