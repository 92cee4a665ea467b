package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pricepal-backend/pkg/config"
	"github.com/angelmondragon/pricepal-backend/pkg/db"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
)

// MaybeRunDev migrates automatically in dev when the feature flag is enabled.
// Postgres runs the goose migrations; sqlite gets SQLiteSchema.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	dialect := client.DB().Dialector.Name()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "dialect": dialect})

	if dialect != DialectPostgres {
		logg.Info(ctx, "migrate.sqlite.start")
		if err := ApplySQLite(ctx, client.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "migrate.sqlite.completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate.goose.start")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.goose.completed")
	return nil
}
