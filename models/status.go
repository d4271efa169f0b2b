package models

type AppointmentStatus string

const (
	StatusUnchecked AppointmentStatus = "unchecked"
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var AllStatuses = []AppointmentStatus{
	StatusUnchecked, StatusPending, StatusApproved,
	StatusRejected, StatusCompleted, StatusCancelled,
}

// transitions maps a target status to the statuses it may be entered from.
// A reject lands from any state.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusApproved:  {StatusUnchecked, StatusPending, StatusApproved},
	StatusRejected:  AllStatuses,
	StatusCompleted: {StatusApproved},
	StatusCancelled: {StatusUnchecked, StatusPending, StatusApproved},
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// SourcesFor returns the statuses from which target can be entered.
func SourcesFor(target AppointmentStatus) []AppointmentStatus {
	src := transitions[target]
	out := make([]AppointmentStatus, len(src))
	copy(out, src)
	return out
}

func CanTransition(from, to AppointmentStatus) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}
