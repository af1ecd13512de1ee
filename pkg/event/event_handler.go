package event

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/rest"
	"github.com/univent/univent/pkg/attachment"
)

type GateDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type EventDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Venue       string   `json:"venue"`
	Description string   `json:"description"`
	CreatorID   string   `json:"creatorId"`
	CreatorRole string   `json:"creatorRole,omitempty"`
	Faculty     string   `json:"faculty"`
	Department  string   `json:"department"`
	OrganizedBy string   `json:"organizedBy,omitempty"`
	Files       []string `json:"files"`
	HOD         GateDTO  `json:"hodApproval"`
	Dean        GateDTO  `json:"deanApproval"`
	VC          GateDTO  `json:"vcApproval"`
	Published   bool     `json:"published"`
	CreatedAt   string   `json:"createdAt"`
}

type Handler struct {
	eventService Service
}

func NewHandler(eventService Service) *Handler {
	return &Handler{eventService: eventService}
}

// Create godoc
// @Summary Submit an event for approval
// @Description Multipart form with event fields and 1-5 pdf/docx attachments of up to 10MB each
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 401 {object} rest.ErrorResponse "Club secret rejected"
// @Failure 502 {object} rest.ErrorResponse "Attachment storage unavailable"
// @Router /event/create [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting new event")

	// One extra MB of headroom for the non-file form fields.
	r.Body = http.MaxBytesReader(w, r.Body, (MaxFiles+1)*MaxFileSize)
	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return
	}

	uploads := make([]Upload, 0, MaxFiles)
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				rest.WriteError(w, http.StatusBadRequest, "Unreadable attachment")
				return
			}
			// Stop reading one byte past the per-file limit; the size
			// check downstream still fires on the truncated content.
			content, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
			file.Close()
			if err != nil {
				rest.WriteError(w, http.StatusBadRequest, "Unreadable attachment")
				return
			}
			uploads = append(uploads, Upload{Filename: header.Filename, Content: content})
		}
	}

	created, err := h.eventService.Create(r.Context(), Event{
		Name:        r.FormValue("name"),
		Date:        date,
		TimeOfDay:   r.FormValue("time"),
		Venue:       r.FormValue("venue"),
		Description: r.FormValue("description"),
		Faculty:     r.FormValue("faculty"),
		Department:  r.FormValue("department"),
		OrganizedBy: r.FormValue("organizedBy"),
	}, uploads, r.FormValue("clubSecret"))
	if err != nil {
		writeEventError(w, err)
		return
	}
	log.Tracef("Created event: %s", created.ID)

	rest.WriteJSON(w, http.StatusCreated, eventToDTO(&created))
}

// CreatedEvents returns the calling account's own submissions with their
// current gate statuses.
func (h *Handler) CreatedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.CreatedEvents(r.Context())
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

// DepartmentEvents is the Head of Department review queue.
func (h *Handler) DepartmentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.DepartmentQueue(r.Context(), cooldownRequested(r))
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

// FacultyEvents is the Dean review queue.
func (h *Handler) FacultyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.FacultyQueue(r.Context(), cooldownRequested(r))
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

// ChancellorEvents is the Vice Chancellor review queue.
func (h *Handler) ChancellorEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ChancellorQueue(r.Context(), cooldownRequested(r))
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

// Approve marks the caller's gate on the event as approved.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	updated, err := h.eventService.Approve(r.Context(), eventID)
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(&updated))
}

// Reject marks the caller's gate on the event as rejected with a reason.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	updated, err := h.eventService.Reject(r.Context(), eventID, req.Reason)
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(&updated))
}

// Update applies a creator edit within the edit window.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	var req struct {
		Name        string `json:"name"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		Venue       string `json:"venue"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return
	}

	updated, err := h.eventService.Update(r.Context(), eventID, Patch{
		Name:        req.Name,
		Date:        date,
		TimeOfDay:   req.Time,
		Venue:       req.Venue,
		Description: req.Description,
	})
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventToDTO(&updated))
}

// Delete removes the caller's own event within the edit window.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		writeEventError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Published lists the fully approved events. This endpoint needs no token.
func (h *Handler) Published(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.Published(r.Context())
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, eventsToDTO(events))
}

func cooldownRequested(r *http.Request) bool {
	return r.URL.Query().Get("cooldown") == "true"
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrAttachmentCount),
		errors.Is(err, ErrFileType),
		errors.Is(err, ErrFileTooLarge):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrClubSecretInvalid):
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotCreator), errors.Is(err, ErrRoleCannotApprove), errors.Is(err, ErrEditWindowElapsed):
		rest.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, attachment.ErrStorageUnavailable):
		rest.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func eventToDTO(event *Event) EventDTO {
	return EventDTO{
		ID:          event.ID,
		Name:        event.Name,
		Date:        event.Date.UTC().Format("2006-01-02"),
		Time:        event.TimeOfDay,
		Venue:       event.Venue,
		Description: event.Description,
		CreatorID:   event.CreatorID,
		CreatorRole: string(event.CreatorRole),
		Faculty:     event.Faculty,
		Department:  event.Department,
		OrganizedBy: event.OrganizedBy,
		Files:       event.Files,
		HOD:         GateDTO{Status: string(event.HOD.Status), Reason: event.HOD.Reason},
		Dean:        GateDTO{Status: string(event.Dean.Status), Reason: event.Dean.Reason},
		VC:          GateDTO{Status: string(event.VC.Status), Reason: event.VC.Reason},
		Published:   event.IsPublished(),
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func eventsToDTO(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, eventToDTO(&events[i]))
	}
	return dtos
}
