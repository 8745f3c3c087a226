package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/dvhl/club-portal/internal/config"
	"github.com/dvhl/club-portal/internal/domain/competition"
	"github.com/dvhl/club-portal/internal/domain/draft"
	"github.com/dvhl/club-portal/internal/domain/season"
	"github.com/dvhl/club-portal/internal/domain/signup"
	"github.com/dvhl/club-portal/internal/domain/subrequest"
	"github.com/dvhl/club-portal/internal/infrastructure/account/clubauth"
	notifyinfra "github.com/dvhl/club-portal/internal/infrastructure/notify"
	"github.com/dvhl/club-portal/internal/infrastructure/repository/memory"
	"github.com/dvhl/club-portal/internal/infrastructure/repository/postgres"
	"github.com/dvhl/club-portal/internal/interfaces/httpapi"
	idgen "github.com/dvhl/club-portal/internal/platform/id"
	"github.com/dvhl/club-portal/internal/platform/logging"
	"github.com/dvhl/club-portal/internal/usecase"

	_ "github.com/lib/pq"
)

type repositories struct {
	plan    season.Repository
	signups signup.Repository
	drafts  draft.Repository
	teams   competition.TeamRepository
	games   competition.GameRepository
	subs    subrequest.Repository
}

// NewHTTPServer wires the portal. With DATABASE_URL set the workflow state
// lives in postgres; without it everything runs on seeded in-memory repos.
// Roster control and the player directory stay in memory either way: both are
// owned by other club services and mirrored here for local development.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	cleanup := func() {}

	repos, dbClose, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	rosterRepo := memory.NewRosterRepository(memory.SeedRosterControls())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())

	notifier, notifierClose, err := buildNotifier(cfg, logger)
	if err != nil {
		dbClose()
		return nil, nil, err
	}
	cleanup = func() {
		notifierClose()
		dbClose()
	}

	idGenerator := idgen.NewRandomGenerator()

	planSvc := usecase.NewSeasonPlanService(repos.plan, logger)
	signupSvc := usecase.NewSignupService(repos.plan, repos.signups, logger)
	draftSvc := usecase.NewDraftService(repos.drafts, repos.plan, playerRepo, rosterRepo, notifier, logger)
	subRequestSvc := usecase.NewSubRequestService(repos.subs, idGenerator, notifier, logger)
	scheduleSvc := usecase.NewScheduleService(repos.teams, repos.games, idGenerator, notifier, logger)
	standingsSvc := usecase.NewStandingsService(repos.teams, repos.games)

	authClient := clubauth.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(
		planSvc,
		signupSvc,
		draftSvc,
		subRequestSvc,
		scheduleSvc,
		standingsSvc,
		rosterRepo,
		playerRepo,
		logging.Default(),
	)
	router := httpapi.NewRouter(handler, authClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.DBURL == "" {
		logger.Info("no DATABASE_URL configured, using in-memory repositories")
		return repositories{
			plan:    memory.NewPlanRepository(),
			signups: memory.NewSignupRepository(),
			drafts:  memory.NewDraftRepository(),
			teams:   memory.NewTeamRepository(memory.SeedTeams()),
			games:   memory.NewGameRepository(),
			subs:    memory.NewSubRequestRepository(),
		}, func() {}, nil
	}

	db, err := connectDB(ctx, cfg.DBURL)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	return repositories{
			plan:    postgres.NewPlanRepository(db),
			signups: postgres.NewSignupRepository(db),
			drafts:  postgres.NewDraftRepository(db),
			teams:   postgres.NewTeamRepository(db),
			games:   postgres.NewGameRepository(db),
			subs:    postgres.NewSubRequestRepository(db),
		}, func() {
			_ = db.Close()
		}, nil
}

func connectDB(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func buildNotifier(cfg config.Config, logger *slog.Logger) (usecase.NotifySink, func(), error) {
	if !cfg.NotifierEnabled {
		return usecase.NopNotifier{}, func() {}, nil
	}

	publisher := notifyinfra.NewWebhookPublisher(notifyinfra.WebhookPublisherConfig{
		BaseURL: cfg.NotifierBaseURL,
		Token:   cfg.NotifierToken,
		Timeout: cfg.NotifierTimeout,
	}, logger)

	dispatcher, err := usecase.NewNotifyDispatcher(publisher, cfg.NotifierWorkers, cfg.NotifierTimeout, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build notify dispatcher: %w", err)
	}

	return dispatcher, dispatcher.Release, nil
}
