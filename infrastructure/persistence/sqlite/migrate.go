package sqlite

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseLogger routes goose output through zap
type gooseLogger struct {
	logger *zap.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations applies the embedded schema migrations
func RunMigrations(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	goose.SetLogger(gooseLogger{logger: logger.Named("goose")})
	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return err
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return err
	}
	logger.Debug("Schema up to date", zap.Int64("version", version))
	return nil
}
