package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	cataloginadapter "ttrack/internal/modules/catalog/adapter/in"
	catalogoutadapter "ttrack/internal/modules/catalog/adapter/out"
	catalogservice "ttrack/internal/modules/catalog/service"
	catalogusecase "ttrack/internal/modules/catalog/usecase"
	reminderoutadapter "ttrack/internal/modules/reminder/adapter/out"
	reminderdomain "ttrack/internal/modules/reminder/domain"
	reminderin "ttrack/internal/modules/reminder/port/in"
	reminderservice "ttrack/internal/modules/reminder/service"
	reminderusecase "ttrack/internal/modules/reminder/usecase"
	syncinadapter "ttrack/internal/modules/sync/adapter/in"
	syncoutadapter "ttrack/internal/modules/sync/adapter/out"
	syncout "ttrack/internal/modules/sync/port/out"
	syncservice "ttrack/internal/modules/sync/service"
	syncusecase "ttrack/internal/modules/sync/usecase"
	trackerinadapter "ttrack/internal/modules/tracker/adapter/in"
	trackeroutadapter "ttrack/internal/modules/tracker/adapter/out"
	trackerservice "ttrack/internal/modules/tracker/service"
	trackerusecase "ttrack/internal/modules/tracker/usecase"
	"ttrack/internal/platform/clock"
	"ttrack/internal/platform/config"
	"ttrack/internal/platform/id"
	uiapp "ttrack/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	CatalogCLI cataloginadapter.CLIHandler
	TrackerCLI trackerinadapter.CLIHandler
	SyncCLI    syncinadapter.CLIHandler
	Reminder   reminderin.Usecase

	store *trackeroutadapter.SQLiteEntryStore
}

func New(cfg config.Config) (*App, error) {
	logger := hclog.New(&hclog.LoggerOptions{Name: "ttrack", Level: hclog.Info})
	clk := clock.SystemClock{}
	ids := id.UUID{}

	catalogUC := catalogusecase.NewInteractor(
		catalogservice.NewCatalogService(catalogoutadapter.NewConfigTaskSource(cfg.Tasks)),
	)

	store, err := trackeroutadapter.NewSQLiteEntryStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new entry store: %w", err)
	}
	trackerUC := trackerusecase.NewInteractor(
		trackerservice.NewTrackerService(clk, ids, store),
		catalogUC,
		store,
	)

	rules := reminderdomain.Rules{
		Tick:                cfg.Reminder.Tick,
		LongRunningAfter:    cfg.Reminder.LongRunningAfter,
		LongRunningCooldown: cfg.Reminder.LongRunningCooldown,
		IdleNagCooldown:     cfg.Reminder.IdleNagCooldown,
	}
	plugins := reminderoutadapter.NewPluginNotifier(reminderoutadapter.NewFileManifestStore(cfg.DataDir))
	notifier := reminderoutadapter.NewFanoutNotifier(
		reminderoutadapter.NewLogNotifier(logger.Named("reminder")),
		plugins,
	)
	engine, err := reminderservice.NewRuleEngine(clk, rules, trackerUC, notifier, reminderoutadapter.NewNoIdleProbe(), logger.Named("reminder"))
	if err != nil {
		return nil, fmt.Errorf("new rule engine: %w", err)
	}
	reminderUC := reminderusecase.NewInteractor(engine, plugins, logger.Named("reminder"))

	var gateway syncout.WorklogGateway
	jira, err := syncoutadapter.NewJiraGateway(cfg.Jira.Domain, cfg.Jira.Email, cfg.Jira.APIToken)
	if err != nil {
		// No Jira credentials yet: tracking still works, sync passes
		// report the configuration problem per entry.
		gateway = syncoutadapter.NewUnconfiguredGateway(err)
	} else {
		gateway = jira
	}
	syncUC := syncusecase.NewInteractor(
		syncservice.NewSyncService(trackerUC, gateway, logger.Named("sync"), cfg.Sync.SubmitTimeout),
		logger.Named("sync"),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		CatalogCLI: cataloginadapter.NewCLIHandler(catalogUC),
		TrackerCLI: trackerinadapter.NewCLIHandler(trackerUC),
		SyncCLI:    syncinadapter.NewCLIHandler(syncUC),
		Reminder:   reminderUC,
		store:      store,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// RunDaemon drives the reminder scheduler and, when an interval is
// configured, the periodic sync pass until ctx is cancelled.
func (a *App) RunDaemon(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.Reminder.Run(groupCtx)
	})
	if a.Config.Sync.Interval > 0 {
		group.Go(func() error {
			return a.SyncCLI.RunPeriodic(groupCtx, a.Config.Sync.Interval)
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.CatalogCLI, app.TrackerCLI, app.SyncCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
