package app

import (
	"context"
	"fmt"

	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	"github.com/yungbote/recipegraph-backend/internal/ingestion"
	"github.com/yungbote/recipegraph-backend/internal/lexicon"
	"github.com/yungbote/recipegraph-backend/internal/normalization"
	"github.com/yungbote/recipegraph-backend/internal/observability"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
	"github.com/yungbote/recipegraph-backend/internal/scrapers"
)

type App struct {
	Log        *logger.Logger
	Cfg        *Config
	Clients    Clients
	Repos      *recipesrepo.Set
	Lexicon    *lexicon.Lexicon
	Classifier *normalization.MeatClassifier
	Backend    ingestion.Backend
	Scraper    scrapers.Scraper
	Engine     *ingestion.Engine

	otelShutdown func(context.Context) error
}

func New(ctx context.Context, cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		SampleRatio: cfg.Otel.SampleRatio,
	})

	lex, err := lexicon.Load(cfg.Lexicon.Dir)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	log.Info("lexicon loaded",
		"amounts", len(lex.Amounts()),
		"processes", len(lex.Processes()),
		"meats", len(lex.Meats()),
	)
	var normOpts []normalization.Option
	if cfg.Lexicon.FoldAccents {
		normOpts = append(normOpts, normalization.WithAccentFolding())
	}
	normalizer := normalization.NewNormalizer(lex.StripPhrases(), normalization.NewProseTagger(), normOpts...)
	classifier := normalization.NewMeatClassifier(lex.Meats())

	scraper, err := scrapers.New(log, scrapers.Config{
		Kind:         cfg.Scraper.Kind,
		ManifestPath: cfg.Scraper.ManifestPath,
		HTMLDir:      cfg.Scraper.HTMLDir,
		URLsFile:     cfg.Scraper.URLsFile,
		Limit:        cfg.Scraper.Limit,
		HTTPTimeout:  cfg.Scraper.HTTPTimeout,
	}, nil)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init scraper: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	backend, set, err := wireBackend(ctx, log, cfg, clients)
	if err != nil {
		clients.Close(ctx)
		log.Sync()
		return nil, err
	}
	engine, err := ingestion.NewEngine(log, ingestion.EngineDeps{
		Normalizer: normalizer,
		Resolver:   clients.Resolver,
		Classifier: classifier,
		Backend:    backend,
	})
	if err != nil {
		clients.Close(ctx)
		log.Sync()
		return nil, fmt.Errorf("init engine: %w", err)
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        set,
		Lexicon:      lex,
		Classifier:   classifier,
		Backend:      backend,
		Scraper:      scraper,
		Engine:       engine,
		otelShutdown: shutdown,
	}, nil
}

// Run scrapes, resets the graph store when configured, and ingests every
// scraped recipe.
func (a *App) Run(ctx context.Context) (ingestion.RunSummary, error) {
	if a == nil || a.Engine == nil {
		return ingestion.RunSummary{}, fmt.Errorf("app not initialized")
	}
	recipes, err := a.Scraper.Scrape(ctx)
	if err != nil {
		return ingestion.RunSummary{}, fmt.Errorf("scrape: %w", err)
	}
	a.Log.Info("scrape finished", "recipes", len(recipes))

	if a.Cfg.Store.Backend != BackendNeo4j || a.Cfg.Neo4j.ResetOnStart {
		reset, err := ingestion.ResetIfSupported(ctx, a.Backend)
		if err != nil {
			return ingestion.RunSummary{}, err
		}
		if reset {
			a.Log.Warn("store reset before run", "backend", a.Backend.Name())
		}
	}
	return a.Engine.Run(ctx, recipes), nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
