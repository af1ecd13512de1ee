package event

import (
	"time"

	"github.com/univent/univent/pkg/user"
)

type GateStatus string

const (
	StatusPending  GateStatus = "pending"
	StatusApproved GateStatus = "approved"
	StatusRejected GateStatus = "rejected"
)

// Gate is one of the three independent approval checkpoints on an event.
// Any status can be written at any time; sequencing is imposed only by the
// read-side queues, so a rejected gate can later be approved.
type Gate struct {
	Status GateStatus
	Reason string
}

// GateName identifies which of the three gates an operation addresses.
type GateName string

const (
	GateHOD  GateName = "hod"
	GateDean GateName = "dean"
	GateVC   GateName = "vc"
)

// GateOwnedBy maps an approver role to the gate it owns. The second return
// is false for roles with no gate.
func GateOwnedBy(role user.Role) (GateName, bool) {
	switch role {
	case user.RoleHeadOfDepartment:
		return GateHOD, true
	case user.RoleDean:
		return GateDean, true
	case user.RoleViceChancellor:
		return GateVC, true
	default:
		return "", false
	}
}

type Event struct {
	ID          string
	Name        string
	Date        time.Time
	TimeOfDay   string
	Venue       string
	Description string
	CreatorID   string
	// CreatorRole annotates reads so approvers can see who submitted; it is
	// resolved from the directory, not stored on the event.
	CreatorRole user.Role
	Faculty     string
	Department  string
	OrganizedBy string
	Files       []string
	HOD         Gate
	Dean        Gate
	VC          Gate
	CreatedAt   time.Time
}

// Gate returns a pointer to the named gate, or nil for an unknown name.
func (e *Event) Gate(name GateName) *Gate {
	switch name {
	case GateHOD:
		return &e.HOD
	case GateDean:
		return &e.Dean
	case GateVC:
		return &e.VC
	default:
		return nil
	}
}

// IsPublished reports whether all three gates are approved, regardless of the
// order in which they were set.
func (e *Event) IsPublished() bool {
	return e.HOD.Status == StatusApproved &&
		e.Dean.Status == StatusApproved &&
		e.VC.Status == StatusApproved
}
