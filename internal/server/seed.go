package server

import (
	"context"
	"errors"

	"github.com/user-mgmt/apiserver/config"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/pkg/logger"
	"github.com/user-mgmt/apiserver/types"
)

// SeedAdmin ensures the configured admin account exists. Idempotent: the
// account is looked up by the configured admin email and created only when
// absent, with ACTIVE status and the ADMIN role.
func SeedAdmin(ctx context.Context, cfg config.Config, userService *services.UserService) error {
	_, err := userService.GetByUsername(ctx, cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	if cfg.Admin.Password == "" {
		return errors.New("ADMIN_PASSWORD is required to create the admin account")
	}

	_, err = userService.Create(ctx, types.UserCreate{
		Fullname: cfg.Admin.Fullname,
		Username: cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Status:   types.StatusActive,
		Roles:    []types.RoleName{types.RoleAdmin},
	})
	if err != nil {
		// A concurrent seeder may have won the race; the account exists
		// either way.
		if errors.Is(err, types.ErrUserExists) {
			return nil
		}
		return err
	}

	lg := logger.Get()
	lg.Info().Str("username", cfg.Admin.Email).Msg("seeded admin account")
	return nil
}
