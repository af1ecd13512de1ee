package faculty

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/rest"
)

type FacultyDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Departments []DepartmentDTO `json:"departments"`
}

type DepartmentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListFaculties godoc
// @Summary List faculties
// @Description Retrieve all faculties with their departments
// @Tags Faculty
// @Produce json
// @Success 200 {array} FacultyDTO
// @Router /faculty [get]
func (h *Handler) ListFaculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.service.ListFaculties(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]FacultyDTO, 0, len(faculties))
	for _, f := range faculties {
		dtos = append(dtos, facultyToDTO(f))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	created, err := h.service.CreateFaculty(r.Context(), req.Name)
	if err != nil {
		writeFacultyError(w, err)
		return
	}
	log.Debugf("created faculty %s", created.ID)
	rest.WriteJSON(w, http.StatusCreated, facultyToDTO(created))
}

func (h *Handler) RenameFaculty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.service.RenameFaculty(r.Context(), vars["facultyId"], req.Name)
	if err != nil {
		writeFacultyError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, facultyToDTO(updated))
}

func (h *Handler) DeleteFaculty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteFaculty(r.Context(), vars["facultyId"]); err != nil {
		writeFacultyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddDepartment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.service.AddDepartment(r.Context(), vars["facultyId"], req.Name)
	if err != nil {
		writeFacultyError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, facultyToDTO(updated))
}

func (h *Handler) RenameDepartment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.service.RenameDepartment(r.Context(), vars["facultyId"], vars["departmentId"], req.Name)
	if err != nil {
		writeFacultyError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, facultyToDTO(updated))
}

func (h *Handler) RemoveDepartment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	updated, err := h.service.RemoveDepartment(r.Context(), vars["facultyId"], vars["departmentId"])
	if err != nil {
		writeFacultyError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, facultyToDTO(updated))
}

func writeFacultyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNameTaken):
		rest.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrFacultyNotFound), errors.Is(err, ErrDepartmentNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func facultyToDTO(faculty Faculty) FacultyDTO {
	departments := make([]DepartmentDTO, 0, len(faculty.Departments))
	for _, d := range faculty.Departments {
		departments = append(departments, DepartmentDTO{ID: d.ID, Name: d.Name})
	}
	return FacultyDTO{
		ID:          faculty.ID,
		Name:        faculty.Name,
		Departments: departments,
	}
}
