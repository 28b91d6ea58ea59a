package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user-mgmt/apiserver/internal/auth"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// memRepo is an in-memory repository mirroring the Postgres store's
// semantics closely enough for handler tests.
type memRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]types.Account
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]types.Account)}
}

func (r *memRepo) Create(_ context.Context, in types.UserCreate) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[in.Username]; exists {
		return types.Account{}, types.ErrUserExists
	}

	passwordHash := ""
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
		if err != nil {
			return types.Account{}, err
		}
		passwordHash = string(hashed)
	}

	status := in.Status
	if status == "" {
		status = types.StatusPending
	}

	r.nextID++
	account := types.Account{
		ID:           r.nextID,
		Fullname:     in.Fullname,
		Username:     in.Username,
		PasswordHash: passwordHash,
		Status:       status,
		Roles:        []types.Role{},
	}
	for i, name := range in.Roles {
		account.Roles = append(account.Roles, types.Role{ID: i + 1, Name: name})
	}

	r.users[account.Username] = account
	return account, nil
}

func (r *memRepo) GetByUsername(_ context.Context, username string) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.users[username]
	if !ok {
		return types.Account{}, types.ErrNotFound
	}
	return account, nil
}

func (r *memRepo) GetMulti(_ context.Context, skip, limit int) ([]types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]types.Account, 0, len(r.users))
	for _, account := range r.users {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if skip >= len(all) {
		return []types.Account{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memRepo) RemoveByUsername(_ context.Context, username string) (types.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.users[username]
	if !ok {
		return types.Account{}, types.ErrNotFound
	}
	delete(r.users, username)
	return account, nil
}

func (r *memRepo) UpdatePassword(_ context.Context, accountID int, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for username, account := range r.users {
		if account.ID == accountID {
			account.PasswordHash = passwordHash
			r.users[username] = account
			return nil
		}
	}
	return types.ErrNotFound
}

// newTestRouter assembles the full route surface over an in-memory
// repository, mirroring the server wiring.
func newTestRouter() (*chi.Mux, *services.UserService, *auth.TokenService) {
	userService := services.NewUserService(newMemRepo())
	tokenService := auth.NewTokenService("test-secret", 30*time.Minute)

	router := chi.NewRouter()
	router.Get("/", Root)
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, tokenService)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(RequireUser(tokenService, userService), RequireActiveUser)
		AdminRouter(r, userService)
	})

	return router, userService, tokenService
}
