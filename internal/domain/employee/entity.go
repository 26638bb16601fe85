package employee

import (
	"time"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	RestDay          string // "Sunday" or a paired set like "Tuesday-Friday"
	WorkArrangement  WorkArrangement
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type WorkArrangement string

const (
	WorkArrangementOffice WorkArrangement = "office"
	WorkArrangementRemote WorkArrangement = "remote"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsRemote() bool {
	return e.WorkArrangement == WorkArrangementRemote
}
