// Package app assembles the registration bot: configuration, storage,
// the dialogue flow and all Telegram handlers.
package app

import (
	"context"
	"log/slog"
	"sync"

	"loyaltybot/archive"
	coreconfig "loyaltybot/core/config"
	"loyaltybot/core/database"
	"loyaltybot/core/logger"
	"loyaltybot/core/telegram"
	"loyaltybot/core/telegram/router"
	"loyaltybot/core/telegram/state"
	"loyaltybot/registration"
	"loyaltybot/sheets"

	tele "gopkg.in/telebot.v4"
)

const migrationsDir = "migrations"

// App holds the assembled bot components.
type App struct {
	cfg      *coreconfig.Config
	registry *telegram.Registry
	states   state.Manager

	directory registration.Directory
	store     registration.RecordStore
	archiver  registration.Archiver

	// archiveStore is the concrete archive when the database is enabled;
	// /stats reads its row count.
	archiveStore *archive.Store

	// sheetsAPI is non-nil only when the spreadsheet backend is configured;
	// admin diagnostics need the concrete client.
	sheetsAPI *sheets.Service

	// flow is assembled on start once the bot (and with it the staff
	// notifier) exists.
	flow *registration.Flow

	greetedMu sync.Mutex
	greeted   map[int64]struct{}
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *coreconfig.Config) (*App, error) {
	a := &App{
		cfg:      cfg,
		registry: telegram.NewRegistry(),
		states:   state.NewMemoryManager(),
		greeted:  make(map[int64]struct{}),
	}

	if cfg.Sheets.SpreadsheetID != "" {
		svc, err := sheets.New(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, cfg.Sheets.CitiesWorksheet)
		if err != nil {
			logger.SVCSheets.Warn("running degraded without spreadsheet backend",
				slog.String("event", "sheets.init"),
				slog.String("err", err.Error()),
			)
			a.directory, a.store = sheets.Unavailable{}, sheets.Unavailable{}
		} else {
			a.sheetsAPI = svc
			a.directory, a.store = svc, svc
		}
	} else {
		logger.SVCSheets.Warn("spreadsheet id not configured, running degraded",
			slog.String("event", "sheets.init"),
		)
		a.directory, a.store = sheets.Unavailable{}, sheets.Unavailable{}
	}

	if cfg.Database.Enabled() {
		dbCfg := database.Config{
			Host:           cfg.Database.Host,
			Port:           cfg.Database.Port,
			User:           cfg.Database.User,
			Password:       cfg.Database.Password,
			Name:           cfg.Database.Name,
			SSLMode:        cfg.Database.SSLMode,
			MaxConnections: cfg.Database.MaxConnections,
		}
		if err := database.RunMigrations(dbCfg, migrationsDir); err != nil {
			return nil, err
		}
		db, err := database.Connect(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		a.archiveStore = archive.NewStore(db)
		a.archiver = a.archiveStore
	}

	a.registerHandlers()
	return a, nil
}

// Run starts the bot and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	routes := []telegram.Route{
		{Endpoint: tele.OnText, Handler: router.TextRoute(a.registry, a.states)},
		{Endpoint: tele.OnContact, Handler: router.ContactRoute(a.registry, a.states)},
		{Endpoint: tele.OnCallback, Handler: router.CallbackRoute(a.registry)},
	}

	return telegram.RunTelegram(ctx, telegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: telegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			notifier := registration.NewChannelNotifier(rt.Bot, a.cfg.Staff.ChannelID)
			a.flow = registration.NewFlow(a.states, a.directory, a.store, notifier, a.archiver)
			return nil
		},
	})
}

func (a *App) markGreeted(userID int64) (first bool) {
	a.greetedMu.Lock()
	defer a.greetedMu.Unlock()
	if _, ok := a.greeted[userID]; ok {
		return false
	}
	a.greeted[userID] = struct{}{}
	return true
}
