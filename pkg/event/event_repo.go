package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/univent/univent/pkg/user"
)

var ErrEventNotFound = errors.New("event not found")

type Repo interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateDetails(ctx context.Context, event Event) error
	SetGate(ctx context.Context, id string, gate GateName, status GateStatus, reason string) error
	DeleteEvent(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string) ([]Event, error)
	DepartmentQueue(ctx context.Context, department, excludeCreatorID string) ([]Event, error)
	FacultyQueue(ctx context.Context, faculty, excludeCreatorID string) ([]Event, error)
	ChancellorQueue(ctx context.Context, excludeCreatorID string) ([]Event, error)
	ListPublished(ctx context.Context) ([]Event, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO events (id, name, date, time_of_day, venue, description, creator_id, faculty, department,
				organized_by, hod_status, hod_reason, dean_status, dean_reason, vc_status, vc_reason, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = tx.ExecContext(ctx, query,
		event.ID,
		event.Name,
		event.Date.Unix(),
		event.TimeOfDay,
		event.Venue,
		event.Description,
		event.CreatorID,
		event.Faculty,
		event.Department,
		event.OrganizedBy,
		string(event.HOD.Status), event.HOD.Reason,
		string(event.Dean.Status), event.Dean.Reason,
		string(event.VC.Status), event.VC.Reason,
		event.CreatedAt.Unix(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}

	for position, url := range event.Files {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO event_files (event_id, position, url) VALUES ($1, $2, $3)`,
			event.ID, position, url)
		if err != nil {
			err := fmt.Errorf("could not store event file: %w", err)
			log.Error(err)
			return Event{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Event{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return event, nil
}

const eventColumns = `e.id, e.name, e.date, e.time_of_day, e.venue, e.description, e.creator_id, e.faculty,
	e.department, e.organized_by, e.hod_status, e.hod_reason, e.dean_status, e.dean_reason, e.vc_status, e.vc_reason,
	e.created_at, u.role`

const eventFrom = ` FROM events e LEFT JOIN users u ON e.creator_id = u.id`

func (r *RepoImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	event, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get event: %w", err)
		log.Error(err)
		return Event{}, err
	}

	files, err := r.filesOf(ctx, event.ID)
	if err != nil {
		return Event{}, err
	}
	event.Files = files
	return event, nil
}

func scanEvent(scan func(dest ...any) error) (Event, error) {
	var event Event
	var date, createdAt int64
	var hodStatus, deanStatus, vcStatus string
	var creatorRole sql.NullString
	err := scan(
		&event.ID,
		&event.Name,
		&date,
		&event.TimeOfDay,
		&event.Venue,
		&event.Description,
		&event.CreatorID,
		&event.Faculty,
		&event.Department,
		&event.OrganizedBy,
		&hodStatus, &event.HOD.Reason,
		&deanStatus, &event.Dean.Reason,
		&vcStatus, &event.VC.Reason,
		&createdAt,
		&creatorRole,
	)
	if err != nil {
		return Event{}, err
	}
	event.Date = time.Unix(date, 0)
	event.CreatedAt = time.Unix(createdAt, 0)
	event.HOD.Status = GateStatus(hodStatus)
	event.Dean.Status = GateStatus(deanStatus)
	event.VC.Status = GateStatus(vcStatus)
	if creatorRole.Valid {
		event.CreatorRole = user.Role(creatorRole.String)
	}
	return event, nil
}

func (r *RepoImpl) filesOf(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT url FROM event_files WHERE event_id = $1 ORDER BY position`, eventID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	files := make([]string, 0)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		files = append(files, url)
	}
	return files, rows.Err()
}

func (r *RepoImpl) UpdateDetails(ctx context.Context, event Event) error {
	query := `UPDATE events SET name = $1, date = $2, time_of_day = $3, venue = $4, description = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Date.Unix(),
		event.TimeOfDay,
		event.Venue,
		event.Description,
		event.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result)
}

// SetGate writes one gate's status and reason. Last write wins; there is no
// version check on concurrent writes to the same gate.
func (r *RepoImpl) SetGate(ctx context.Context, id string, gate GateName, status GateStatus, reason string) error {
	var query string
	switch gate {
	case GateHOD:
		query = `UPDATE events SET hod_status = $1, hod_reason = $2 WHERE id = $3`
	case GateDean:
		query = `UPDATE events SET dean_status = $1, dean_reason = $2 WHERE id = $3`
	case GateVC:
		query = `UPDATE events SET vc_status = $1, vc_reason = $2 WHERE id = $3`
	default:
		return fmt.Errorf("unknown gate: %s", gate)
	}
	result, err := r.db.ExecContext(ctx, query, string(status), reason, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result)
}

func (r *RepoImpl) DeleteEvent(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_files WHERE event_id = $1`, id); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return requireRows(result)
}

func (r *RepoImpl) ListByCreator(ctx context.Context, creatorID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.creator_id = $1 ORDER BY e.created_at DESC`
	return r.queryEvents(ctx, query, creatorID)
}

func (r *RepoImpl) DepartmentQueue(ctx context.Context, department, excludeCreatorID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.department = $1 AND e.creator_id != $2 AND e.hod_status = 'pending'
		ORDER BY e.created_at`
	return r.queryEvents(ctx, query, department, excludeCreatorID)
}

func (r *RepoImpl) FacultyQueue(ctx context.Context, faculty, excludeCreatorID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.faculty = $1 AND e.creator_id != $2 AND e.hod_status = 'approved'
		ORDER BY e.created_at`
	return r.queryEvents(ctx, query, faculty, excludeCreatorID)
}

func (r *RepoImpl) ChancellorQueue(ctx context.Context, excludeCreatorID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.creator_id != $1 AND e.hod_status = 'approved' AND e.dean_status = 'approved'
		ORDER BY e.created_at`
	return r.queryEvents(ctx, query, excludeCreatorID)
}

func (r *RepoImpl) ListPublished(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.hod_status = 'approved' AND e.dean_status = 'approved' AND e.vc_status = 'approved'
		ORDER BY e.date`
	return r.queryEvents(ctx, query)
}

func (r *RepoImpl) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		files, err := r.filesOf(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Files = files
	}
	return events, nil
}

func requireRows(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
