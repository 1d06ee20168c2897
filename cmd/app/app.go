package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventhub-app/eventhub-api/internal/api"
	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/db"
	"github.com/eventhub-app/eventhub-api/internal/logger"
	"github.com/eventhub-app/eventhub-api/internal/repository"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	if err = provisionAdmin(postgresDB, conf); err != nil {
		return fmt.Errorf("failed to provision admin -> %w", err)
	}

	if err = os.MkdirAll(conf.Upload.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// provisionAdmin creates the default admin account once at startup.
// It is idempotent and a no-op when any admin row already exists.
func provisionAdmin(postgresDB *gorm.DB, conf *config.AppConfig) error {
	repo := repository.NewAdminRepository(dao.NewAdminDAO(postgresDB))
	svc := service.NewAuthService(repo)

	return svc.EnsureDefaultAdmin(context.Background(), conf.Admin.Username, conf.Admin.Email, conf.Admin.Password)
}
