package event

import (
	"context"
	"sort"
)

// StubEventRepository is an in-memory Repo used by unit tests.
type StubEventRepository struct {
	data map[string]Event
}

func NewStubEventRepository() *StubEventRepository {
	return &StubEventRepository{data: make(map[string]Event)}
}

func (r *StubEventRepository) Cleanup() {
	r.data = make(map[string]Event)
}

func (r *StubEventRepository) CreateEvent(_ context.Context, event Event) (Event, error) {
	r.data[event.ID] = event
	return event, nil
}

func (r *StubEventRepository) GetEvent(_ context.Context, id string) (Event, error) {
	event, ok := r.data[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *StubEventRepository) UpdateDetails(_ context.Context, event Event) error {
	stored, ok := r.data[event.ID]
	if !ok {
		return ErrEventNotFound
	}
	stored.Name = event.Name
	stored.Date = event.Date
	stored.TimeOfDay = event.TimeOfDay
	stored.Venue = event.Venue
	stored.Description = event.Description
	r.data[event.ID] = stored
	return nil
}

func (r *StubEventRepository) SetGate(_ context.Context, id string, gate GateName, status GateStatus, reason string) error {
	event, ok := r.data[id]
	if !ok {
		return ErrEventNotFound
	}
	target := event.Gate(gate)
	if target == nil {
		return ErrEventNotFound
	}
	target.Status = status
	target.Reason = reason
	r.data[id] = event
	return nil
}

func (r *StubEventRepository) DeleteEvent(_ context.Context, id string) error {
	if _, ok := r.data[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *StubEventRepository) ListByCreator(_ context.Context, creatorID string) ([]Event, error) {
	return r.filter(func(e Event) bool {
		return e.CreatorID == creatorID
	}), nil
}

func (r *StubEventRepository) DepartmentQueue(_ context.Context, department, excludeCreatorID string) ([]Event, error) {
	return r.filter(func(e Event) bool {
		return e.Department == department && e.CreatorID != excludeCreatorID && e.HOD.Status == StatusPending
	}), nil
}

func (r *StubEventRepository) FacultyQueue(_ context.Context, faculty, excludeCreatorID string) ([]Event, error) {
	return r.filter(func(e Event) bool {
		return e.Faculty == faculty && e.CreatorID != excludeCreatorID && e.HOD.Status == StatusApproved
	}), nil
}

func (r *StubEventRepository) ChancellorQueue(_ context.Context, excludeCreatorID string) ([]Event, error) {
	return r.filter(func(e Event) bool {
		return e.CreatorID != excludeCreatorID && e.HOD.Status == StatusApproved && e.Dean.Status == StatusApproved
	}), nil
}

func (r *StubEventRepository) ListPublished(_ context.Context) ([]Event, error) {
	return r.filter(func(e Event) bool {
		return e.IsPublished()
	}), nil
}

func (r *StubEventRepository) filter(keep func(Event) bool) []Event {
	result := make([]Event, 0)
	for _, event := range r.data {
		if keep(event) {
			result = append(result, event)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
