package overtime

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Request is an overtime request for one employee and work date.
type Request struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	EndTime    string // HH:MM:SS wall-clock time
}

func (r Request) IsApproved() bool {
	return r.Status == StatusApproved
}
