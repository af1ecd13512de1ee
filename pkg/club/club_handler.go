package club

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/univent/univent/internal/rest"
)

type ClubDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clubRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.service.ListClubs(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]ClubDTO, 0, len(clubs))
	for _, c := range clubs {
		dtos = append(dtos, ClubDTO{ID: c.ID, Name: c.Name})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.Name == "" {
		rest.WriteError(w, http.StatusBadRequest, "Club name is required")
		return
	}

	created, err := h.service.CreateClub(r.Context(), req.Name, req.Password)
	if err != nil {
		writeClubError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ClubDTO{ID: created.ID, Name: created.Name})
}

func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.service.UpdateClub(r.Context(), vars["clubId"], req.Name, req.Password)
	if err != nil {
		writeClubError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ClubDTO{ID: updated.ID, Name: updated.Name})
}

func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteClub(r.Context(), vars["clubId"]); err != nil {
		writeClubError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Validate godoc
// @Summary Check a club secret
// @Description Compare a caller-supplied secret against the stored hash; advisory only, creation re-checks
// @Tags Club
// @Produce json
// @Param clubId query string true "Club id"
// @Param clubPassword query string true "Club secret"
// @Success 200 {object} object{valid=bool}
// @Failure 401 {object} object{valid=bool}
// @Router /club/validate [get]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("clubId")
	secret := r.URL.Query().Get("clubPassword")
	if clubID == "" || secret == "" {
		rest.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"valid":   false,
			"message": "Missing club ID or password",
		})
		return
	}

	valid, err := h.service.Validate(r.Context(), clubID, secret)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, map[string]any{
				"valid":   false,
				"message": "Club not found",
			})
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !valid {
		rest.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"valid":   false,
			"message": "Incorrect password",
		})
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"message": "Password is correct",
	})
}

func writeClubError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSecretRequired):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNameTaken):
		rest.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrClubNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
