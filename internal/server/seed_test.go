package server

import (
	"context"
	"testing"

	"github.com/user-mgmt/apiserver/config"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/types"
)

type seedRepo struct {
	users   map[string]types.Account
	creates int
}

func newSeedRepo() *seedRepo {
	return &seedRepo{users: make(map[string]types.Account)}
}

func (r *seedRepo) Create(_ context.Context, in types.UserCreate) (types.Account, error) {
	if _, exists := r.users[in.Username]; exists {
		return types.Account{}, types.ErrUserExists
	}
	r.creates++
	account := types.Account{
		ID:       len(r.users) + 1,
		Fullname: in.Fullname,
		Username: in.Username,
		Status:   in.Status,
	}
	for i, name := range in.Roles {
		account.Roles = append(account.Roles, types.Role{ID: i + 1, Name: name})
	}
	r.users[in.Username] = account
	return account, nil
}

func (r *seedRepo) GetByUsername(_ context.Context, username string) (types.Account, error) {
	account, ok := r.users[username]
	if !ok {
		return types.Account{}, types.ErrNotFound
	}
	return account, nil
}

func (r *seedRepo) GetMulti(context.Context, int, int) ([]types.Account, error) {
	return nil, nil
}

func (r *seedRepo) RemoveByUsername(context.Context, string) (types.Account, error) {
	return types.Account{}, types.ErrNotFound
}

func (r *seedRepo) UpdatePassword(context.Context, int, string) error {
	return nil
}

func seedConfig() config.Config {
	return config.Config{
		Admin: config.AdminConfig{
			Email:    "admin@example.com",
			Fullname: "Administrator",
			Password: "admin-pass",
		},
	}
}

func TestSeedAdminCreatesWhenAbsent(t *testing.T) {
	repo := newSeedRepo()
	svc := services.NewUserService(repo)

	if err := SeedAdmin(context.Background(), seedConfig(), svc); err != nil {
		t.Fatalf("SeedAdmin returned error: %v", err)
	}

	admin, err := repo.GetByUsername(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("admin account missing after seed: %v", err)
	}
	if !admin.IsAdmin() {
		t.Fatal("seeded account should hold the ADMIN role")
	}
	if admin.Status != types.StatusActive {
		t.Fatalf("status = %q, want ACTIVE", admin.Status)
	}
}

func TestSeedAdminIdempotent(t *testing.T) {
	repo := newSeedRepo()
	svc := services.NewUserService(repo)
	cfg := seedConfig()

	if err := SeedAdmin(context.Background(), cfg, svc); err != nil {
		t.Fatalf("first SeedAdmin returned error: %v", err)
	}
	if err := SeedAdmin(context.Background(), cfg, svc); err != nil {
		t.Fatalf("second SeedAdmin returned error: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("creates = %d, want 1", repo.creates)
	}
}

func TestSeedAdminRequiresPassword(t *testing.T) {
	repo := newSeedRepo()
	svc := services.NewUserService(repo)

	cfg := seedConfig()
	cfg.Admin.Password = ""

	if err := SeedAdmin(context.Background(), cfg, svc); err == nil {
		t.Fatal("expected error when admin password is unset and account absent")
	}
}
