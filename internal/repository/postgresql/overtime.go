package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

// GetByEmployeeAndDate implements overtime.OvertimeRepository.
// An approved request wins over later pending or rejected ones for the same date.
func (o *overtimeRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*overtime.Request, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		SELECT id, employee_id, date, status, COALESCE(to_char(end_time, 'HH24:MI:SS'), '')
		FROM overtime_requests
		WHERE employee_id = $1 AND date = $2
		ORDER BY (status = $3) DESC, created_at DESC
		LIMIT 1
	`

	var (
		req    overtime.Request
		status string
	)
	err := q.QueryRow(ctx, query, employeeID, attendance.DateOf(date), string(overtime.StatusApproved)).Scan(
		&req.ID, &req.EmployeeID, &req.Date, &status, &req.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overtime request: %w", err)
	}

	req.Status = overtime.Status(status)
	return &req, nil
}
