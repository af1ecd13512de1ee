package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/rest"
)

type UserDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Faculty    string `json:"faculty,omitempty"`
	Department string `json:"department,omitempty"`
	LastActive string `json:"lastActive,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

type SignUpRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type Handler struct {
	userService Service
	issuer      *auth.Issuer
}

func NewHandler(userService Service, issuer *auth.Issuer) *Handler {
	return &Handler{userService: userService, issuer: issuer}
}

// SignUp godoc
// @Summary Register a new account
// @Description Create an account with a role; faculty/department requiredness depends on the role
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new account")

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		rest.WriteError(w, http.StatusBadRequest, "Username, Email, Password, and Role are required")
		return
	}

	created, err := h.userService.SignUp(r.Context(), User{
		Username:   req.Username,
		Email:      req.Email,
		Role:       Role(req.Role),
		Faculty:    req.Faculty,
		Department: req.Department,
	}, req.Password)
	if err != nil {
		writeUserError(w, err)
		return
	}
	log.Tracef("Registered account: %s", created.ID)

	rest.WriteJSON(w, http.StatusCreated, userToDTO(&created))
}

// SignIn godoc
// @Summary Sign in
// @Description Exchange credentials for a bearer token valid for 3 hours
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} SignInResponse
// @Failure 400 {object} rest.ErrorResponse "Invalid credentials"
// @Router /auth/signin [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	account, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, exp, err := h.issuer.Issue(account.ID, string(account.Role), account.Faculty, account.Department)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, SignInResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
		User:      userToDTO(&account),
	})
}

// ChangePassword handles the one-time password change of the calling account.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.Password == "" {
		rest.WriteError(w, http.StatusBadRequest, "Password is required")
		return
	}

	if err := h.userService.ChangePassword(r.Context(), req.Password); err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// AllUsers returns every registered account, newest first.
func (h *Handler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userToDTO(&u))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// UpdateUser applies an administrator edit to an account.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.Username == "" || req.Email == "" || req.Role == "" {
		rest.WriteError(w, http.StatusBadRequest, "Username, Email, and Role are required")
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), User{
		ID:         userID,
		Username:   req.Username,
		Email:      req.Email,
		Role:       Role(req.Role),
		Faculty:    req.Faculty,
		Department: req.Department,
	}, req.Password)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(&updated))
}

// DeleteUser removes an account by id.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		writeUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LastActive records the account's last activity timestamp.
func (h *Handler) LastActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	if err := h.userService.TouchLastActive(r.Context(), req.Email); err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]string{"message": "Last active updated successfully"})
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoleInvalid),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrFacultyRequired),
		errors.Is(err, ErrDepartmentRequired),
		errors.Is(err, ErrFacultyUnknown),
		errors.Is(err, ErrDepartmentUnknown):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		rest.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUserNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPasswordAlreadyChanged):
		rest.WriteError(w, http.StatusForbidden, err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func userToDTO(user *User) UserDTO {
	dto := UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(user.Role),
		Faculty:    user.Faculty,
		Department: user.Department,
		CreatedAt:  user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !user.LastActive.IsZero() {
		dto.LastActive = user.LastActive.UTC().Format(time.RFC3339)
	}
	return dto
}
