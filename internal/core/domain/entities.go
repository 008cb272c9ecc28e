package domain

// Role represents user role in the system
type Role string

const (
	RoleVolunteer Role = "VOLUNTEER"
	RoleNGO       Role = "NGO"
	RoleAdmin     Role = "ADMIN"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleVolunteer, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether r may be chosen at sign-up
func (r Role) SelfRegistrable() bool {
	return r == RoleVolunteer || r == RoleNGO
}

// MissionStatus is the lifecycle state of a mission
type MissionStatus string

const (
	MissionDraft     MissionStatus = "DRAFT"
	MissionActive    MissionStatus = "ACTIVE"
	MissionCompleted MissionStatus = "COMPLETED"
	MissionCancelled MissionStatus = "CANCELLED"
)

// IsValid reports whether s is a known mission status
func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionDraft, MissionActive, MissionCompleted, MissionCancelled:
		return true
	}
	return false
}

// AcceptsApplications reports whether volunteers may apply in this state
func (s MissionStatus) AcceptsApplications() bool {
	return s == MissionActive
}

// ApplicationStatus is the lifecycle state of an application
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// applicationTransitions lists every legal edge of the application state
// machine. REJECTED and WITHDRAWN have no outgoing edges.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
	ApplicationAccepted: {ApplicationWithdrawn},
}

// IsValid reports whether s is a known application status
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is legal
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDecision reports whether s is a status an NGO may decide on
func (s ApplicationStatus) IsDecision() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Principal is the authenticated caller as seen by the services
type Principal struct {
	UserID uint
	Email  string
	Role   Role
}
