package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/pkg/logger"
	"github.com/user-mgmt/apiserver/types"
)

const (
	defaultSkip  = 0
	defaultLimit = 50
	maxLimit     = 100
)

// AdminHandler provides role-gated user administration endpoints. Routes
// must be mounted behind RequireUser and RequireActiveUser.
type AdminHandler struct {
	userService *services.UserService
}

func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// AdminRouter registers admin routes on the given router.
func AdminRouter(r chi.Router, userService *services.UserService) {
	handler := NewAdminHandler(userService)

	r.Get("/user", handler.ListUsers)
	r.Post("/user", handler.CreateUser)
}

// UserResponse is the API projection of an account. The password hash is
// never serialized.
type UserResponse struct {
	Fullname string           `json:"fullname"`
	Username string           `json:"username"`
	Status   types.UserStatus `json:"status"`
	Roles    []RoleResponse   `json:"roles"`
}

type RoleResponse struct {
	Name types.RoleName `json:"name"`
}

func toUserResponse(account types.Account) UserResponse {
	roles := make([]RoleResponse, 0, len(account.Roles))
	for _, role := range account.Roles {
		roles = append(roles, RoleResponse{Name: role.Name})
	}
	return UserResponse{
		Fullname: account.Fullname,
		Username: account.Username,
		Status:   account.Status,
		Roles:    roles,
	}
}

// CreateUserRequest is the admin user-creation payload. Password is
// optional: accounts created without one cannot log in until a password is
// set.
type CreateUserRequest struct {
	Fullname string        `json:"fullname" validate:"required"`
	Username string        `json:"username" validate:"required,email"`
	Password string        `json:"password"`
	Status   string        `json:"status"`
	Roles    []RoleRequest `json:"roles" validate:"required,dive"`
}

type RoleRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListUsers returns a paginated slice of accounts, admins only.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	if !account.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "Access denied")
		return
	}

	skip := queryInt(r, "skip", defaultSkip)
	limit := queryInt(r, "limit", defaultLimit)
	if skip < 0 {
		skip = defaultSkip
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	accounts, err := h.userService.GetMulti(r.Context(), skip, limit)
	if err != nil {
		lg := logger.Get()
		lg.Error().Err(err).Msg("list users failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	users := make([]UserResponse, 0, len(accounts))
	for _, acct := range accounts {
		users = append(users, toUserResponse(acct))
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates a new account, admins only. A duplicate username is a
// conflict carrying the store's message verbatim.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFromContext(r.Context())
	if !account.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "Access denied")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	in, err := toUserCreate(req)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.userService.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, types.ErrUserExists) {
			writeDetail(w, http.StatusConflict, err.Error())
			return
		}
		lg := logger.Get()
		lg.Error().Err(err).Msg("create user failed")
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(created))
}

func toUserCreate(req CreateUserRequest) (types.UserCreate, error) {
	in := types.UserCreate{
		Fullname: req.Fullname,
		Username: req.Username,
		Password: req.Password,
	}

	if req.Status != "" {
		status, err := types.ParseUserStatus(req.Status)
		if err != nil {
			return types.UserCreate{}, err
		}
		in.Status = status
	}

	for _, role := range req.Roles {
		name, err := types.ParseRoleName(role.Name)
		if err != nil {
			return types.UserCreate{}, err
		}
		in.Roles = append(in.Roles, name)
	}
	return in, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
