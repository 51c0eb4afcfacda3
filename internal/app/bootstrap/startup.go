// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/merrittsmen/clubhub/internal/app/resources"
	userstore "github.com/merrittsmen/clubhub/internal/app/store/users"
	"github.com/merrittsmen/clubhub/internal/app/system/timeouts"
	"github.com/merrittsmen/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	return nil
}

// ensureAdmin guarantees the configured email belongs to an approved
// admin so a fresh deployment has someone who can approve applications.
// A missing account is created with Google sign-in: the owner of that
// address signs in through OAuth and lands straight in the admin area.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		created, cerr := users.Create(ctx, models.User{
			FullName:   email,
			Email:      email,
			AuthMethod: models.AuthMethodGoogle,
		})
		if cerr != nil {
			return cerr
		}
		u = &created
		logger.Info("admin account created; sign in with Google to use it",
			zap.String("email", created.Email))
	} else if err != nil {
		return err
	}

	if u.Approved && u.IsAdmin {
		return nil
	}
	if err := users.Promote(ctx, u.ID); err != nil {
		return err
	}
	logger.Info("admin account promoted", zap.String("email", u.Email))
	return nil
}
