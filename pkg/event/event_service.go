package event

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/internal/auth"
	"github.com/univent/univent/internal/utils"
	"github.com/univent/univent/pkg/attachment"
	"github.com/univent/univent/pkg/club"
	"github.com/univent/univent/pkg/user"
)

const (
	// EditWindow is how long after creation the creator may still edit or
	// delete the event.
	EditWindow = 6 * time.Hour
	// QueueCooldown withholds freshly created events from approver queues,
	// giving the creator the full edit window before review starts.
	QueueCooldown = 6 * time.Hour

	MaxFiles    = 5
	MaxFileSize = 10 << 20
)

var (
	ErrMissingFields     = errors.New("name, date, time, venue, description, faculty and department are required")
	ErrAttachmentCount   = errors.New("between 1 and 5 attachments are required")
	ErrFileType          = errors.New("only .pdf and .docx files are allowed")
	ErrFileTooLarge      = errors.New("attachment exceeds the 10MB limit")
	ErrClubSecretInvalid = errors.New("club secret is not valid")
	ErrNotCreator        = errors.New("only the creator may modify this event")
	ErrEditWindowElapsed = errors.New("edit window has elapsed")
	ErrRoleCannotApprove = errors.New("role owns no approval gate")
)

var allowedContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Upload is a file attached to an event at creation time, already read into
// memory so a failed transfer can be retried.
type Upload struct {
	Filename string
	Content  []byte
}

// Patch carries the fields the creator may change within the edit window.
type Patch struct {
	Name        string
	Date        time.Time
	TimeOfDay   string
	Venue       string
	Description string
}

// Directory is the slice of the account directory the event store needs.
type Directory interface {
	GetUser(ctx context.Context, id string) (user.User, error)
}

type Service interface {
	Create(ctx context.Context, event Event, uploads []Upload, clubSecret string) (Event, error)
	Approve(ctx context.Context, id string) (Event, error)
	Reject(ctx context.Context, id, reason string) (Event, error)
	Update(ctx context.Context, id string, patch Patch) (Event, error)
	Delete(ctx context.Context, id string) error
	CreatedEvents(ctx context.Context) ([]Event, error)
	DepartmentQueue(ctx context.Context, cooldown bool) ([]Event, error)
	FacultyQueue(ctx context.Context, cooldown bool) ([]Event, error)
	ChancellorQueue(ctx context.Context, cooldown bool) ([]Event, error)
	Published(ctx context.Context) ([]Event, error)
}

type ServiceImpl struct {
	repo      Repo
	store     attachment.Store
	directory Directory
	clubs     club.Validator
	clock     utils.Clock
}

func NewEventService(repo Repo, store attachment.Store, directory Directory, clubs club.Validator) *ServiceImpl {
	return &ServiceImpl{repo: repo, store: store, directory: directory, clubs: clubs, clock: utils.SystemClock{}}
}

// Create validates and persists a new event with all three gates pending.
// When the event is organized by a club, the caller-supplied secret is
// verified here regardless of any earlier client-side preflight.
func (s *ServiceImpl) Create(ctx context.Context, event Event, uploads []Upload, clubSecret string) (Event, error) {
	claims, err := auth.CurrentClaims(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	creator, err := s.directory.GetUser(ctx, claims.UserID)
	if err != nil {
		return Event{}, fmt.Errorf("failed to resolve creator: %w", err)
	}

	if event.Name == "" || event.Date.IsZero() || event.TimeOfDay == "" || event.Venue == "" ||
		event.Description == "" || event.Faculty == "" || event.Department == "" {
		return Event{}, ErrMissingFields
	}
	if len(uploads) < 1 || len(uploads) > MaxFiles {
		return Event{}, ErrAttachmentCount
	}
	for _, upload := range uploads {
		ext := strings.ToLower(filepath.Ext(upload.Filename))
		if _, ok := allowedContentTypes[ext]; !ok {
			return Event{}, ErrFileType
		}
		if len(upload.Content) > MaxFileSize {
			return Event{}, ErrFileTooLarge
		}
	}

	if event.OrganizedBy != "" {
		valid, err := s.clubs.ValidateByName(ctx, event.OrganizedBy, clubSecret)
		if err != nil {
			if errors.Is(err, club.ErrClubNotFound) {
				// An unknown club reads the same as a wrong secret.
				return Event{}, ErrClubSecretInvalid
			}
			return Event{}, fmt.Errorf("failed to validate club secret: %w", err)
		}
		if !valid {
			return Event{}, ErrClubSecretInvalid
		}
	}

	files := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := s.uploadWithRetry(ctx, upload)
		if err != nil {
			return Event{}, err
		}
		files = append(files, url)
	}

	event.ID = uuid.NewString()
	event.CreatorID = creator.ID
	event.CreatorRole = creator.Role
	event.Files = files
	event.HOD = Gate{Status: StatusPending}
	event.Dean = Gate{Status: StatusPending}
	event.VC = Gate{Status: StatusPending}
	event.CreatedAt = s.clock.Now()

	return s.repo.CreateEvent(ctx, event)
}

// uploadWithRetry sends one attachment to the object store, retrying exactly
// once when the failure is timeout-class.
func (s *ServiceImpl) uploadWithRetry(ctx context.Context, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	name := uuid.NewString() + ext
	contentType := allowedContentTypes[ext]

	url, err := s.store.Upload(ctx, name, contentType, upload.Content)
	if err == nil {
		return url, nil
	}
	if !attachment.IsTimeout(err) {
		log.Errorf("failed to upload attachment %s: %v", upload.Filename, err)
		return "", fmt.Errorf("%w: %v", attachment.ErrStorageUnavailable, err)
	}

	log.Warnf("upload of %s timed out, retrying once", upload.Filename)
	url, err = s.store.Upload(ctx, name, contentType, upload.Content)
	if err != nil {
		log.Errorf("retry failed for attachment %s: %v", upload.Filename, err)
		return "", fmt.Errorf("%w: %v", attachment.ErrStorageUnavailable, err)
	}
	return url, nil
}

// Approve sets the gate owned by the caller's role to approved. Other gates
// are never touched.
func (s *ServiceImpl) Approve(ctx context.Context, id string) (Event, error) {
	return s.setGate(ctx, id, StatusApproved, "")
}

// Reject sets the gate owned by the caller's role to rejected and stores the
// reason verbatim; an empty reason is permitted.
func (s *ServiceImpl) Reject(ctx context.Context, id, reason string) (Event, error) {
	return s.setGate(ctx, id, StatusRejected, reason)
}

func (s *ServiceImpl) setGate(ctx context.Context, id string, status GateStatus, reason string) (Event, error) {
	claims, err := auth.CurrentClaims(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	gate, ok := GateOwnedBy(user.Role(claims.Role))
	if !ok {
		return Event{}, ErrRoleCannotApprove
	}
	if err := s.repo.SetGate(ctx, id, gate, status, reason); err != nil {
		return Event{}, err
	}
	log.Debugf("event %s: %s gate set to %s", id, gate, status)
	return s.repo.GetEvent(ctx, id)
}

// Update applies a creator edit. It is refused for anyone but the creator and
// after the edit window has elapsed.
func (s *ServiceImpl) Update(ctx context.Context, id string, patch Patch) (Event, error) {
	event, err := s.guardCreatorWindow(ctx, id)
	if err != nil {
		return Event{}, err
	}

	event.Name = patch.Name
	event.Date = patch.Date
	event.TimeOfDay = patch.TimeOfDay
	event.Venue = patch.Venue
	event.Description = patch.Description
	if err := s.repo.UpdateDetails(ctx, event); err != nil {
		return Event{}, err
	}
	return s.repo.GetEvent(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.guardCreatorWindow(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteEvent(ctx, id)
}

func (s *ServiceImpl) guardCreatorWindow(ctx context.Context, id string) (Event, error) {
	claims, err := auth.CurrentClaims(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if event.CreatorID != claims.UserID {
		return Event{}, ErrNotCreator
	}
	if s.clock.Now().Sub(event.CreatedAt) > EditWindow {
		return Event{}, ErrEditWindowElapsed
	}
	return event, nil
}

func (s *ServiceImpl) CreatedEvents(ctx context.Context) ([]Event, error) {
	userID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListByCreator(ctx, userID)
}

// DepartmentQueue returns the events awaiting the calling Head of
// Department's decision: same department, not self-created, HOD gate pending.
func (s *ServiceImpl) DepartmentQueue(ctx context.Context, cooldown bool) ([]Event, error) {
	claims, err := auth.CurrentClaims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	events, err := s.repo.DepartmentQueue(ctx, claims.Department, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.applyCooldown(events, cooldown), nil
}

// FacultyQueue returns the events awaiting the calling Dean: same faculty,
// not self-created, already cleared by the HOD.
func (s *ServiceImpl) FacultyQueue(ctx context.Context, cooldown bool) ([]Event, error) {
	claims, err := auth.CurrentClaims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	events, err := s.repo.FacultyQueue(ctx, claims.Faculty, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.applyCooldown(events, cooldown), nil
}

// ChancellorQueue returns the events awaiting the Vice Chancellor: cleared by
// both the HOD and the Dean, not self-created.
func (s *ServiceImpl) ChancellorQueue(ctx context.Context, cooldown bool) ([]Event, error) {
	userID, err := auth.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	events, err := s.repo.ChancellorQueue(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.applyCooldown(events, cooldown), nil
}

func (s *ServiceImpl) Published(ctx context.Context) ([]Event, error) {
	return s.repo.ListPublished(ctx)
}

func (s *ServiceImpl) applyCooldown(events []Event, cooldown bool) []Event {
	if !cooldown {
		return events
	}
	now := s.clock.Now()
	filtered := make([]Event, 0, len(events))
	for _, event := range events {
		if now.Sub(event.CreatedAt) >= QueueCooldown {
			filtered = append(filtered, event)
		}
	}
	return filtered
}
