package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/studyboosters/backend/internal/config"
	"github.com/studyboosters/backend/internal/db"
	"github.com/studyboosters/backend/internal/service"
	"github.com/studyboosters/backend/internal/storage"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/store/firebasetree"
	"github.com/studyboosters/backend/internal/store/memtree"
	"github.com/studyboosters/backend/internal/store/sqltree"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Store           *store.Adapter
	TokenService    *service.TokenService
	ActivityService *service.ActivityLogService
	SettingsService *service.SettingsService
	AuthService     *service.AuthService
	FileService     *service.FileService
	SubjectService  *service.SubjectService
	DoubtService    *service.DoubtService
	MentorService   *service.MentorService
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	tree, database, err := OpenTree(ctx, cfg)
	if err != nil {
		return nil, err
	}

	payloads, err := storage.New(ctx, cfg)
	if err != nil {
		if database != nil {
			_ = database.Close()
		}
		return nil, fmt.Errorf("failed to initialize payload storage: %w", err)
	}

	a := Wire(cfg, store.NewAdapter(tree, cfg.StoreRoot), payloads)
	a.DB = database
	return a, nil
}

// OpenTree connects the store backend named by STORE_DRIVER. The returned
// database is nil for backends that are not SQL.
func OpenTree(ctx context.Context, cfg *config.Config) (store.Tree, *sqlx.DB, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memtree.New(), nil, nil
	case "firebase":
		tree, err := firebasetree.New(ctx, firebasetree.Config{
			DatabaseURL:     cfg.FirebaseDatabaseURL,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			Timeout:         cfg.FirebaseTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize firebase store: %w", err)
		}
		return tree, nil, nil
	case "sqlite", "pgx":
		database, err := db.Open(cfg.StoreDriver, cfg.StoreConnection)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		err = db.Migrate(database.DB, cfg.StoreDriver)
		if err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return sqltree.New(database), database, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %q", cfg.StoreDriver)
	}
}

// Wire builds every service on top of one store adapter.
func Wire(cfg *config.Config, adapter *store.Adapter, payloads storage.Storage) *App {
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
	activityService := service.NewActivityLogService(adapter)
	settingsService := service.NewSettingsService(adapter, activityService)

	return &App{
		Cfg:             cfg,
		Store:           adapter,
		TokenService:    tokenService,
		ActivityService: activityService,
		SettingsService: settingsService,
		AuthService:     service.NewAuthService(adapter, activityService, tokenService),
		FileService:     service.NewFileService(adapter, activityService, settingsService, payloads),
		SubjectService:  service.NewSubjectService(adapter, activityService),
		DoubtService:    service.NewDoubtService(adapter, activityService),
		MentorService:   service.NewMentorService(adapter, activityService),
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
