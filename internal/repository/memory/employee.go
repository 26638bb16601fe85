package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type EmployeeRepository struct {
	s *Store
}

var _ employee.EmployeeRepository = (*EmployeeRepository)(nil)

// Put inserts or replaces an employee.
func (r *EmployeeRepository) Put(emp employee.Employee) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if emp.EmploymentStatus == "" {
		emp.EmploymentStatus = employee.EmploymentStatusActive
	}
	if emp.WorkArrangement == "" {
		emp.WorkArrangement = employee.WorkArrangementOffice
	}
	r.s.employees[emp.ID] = emp
}

// GetByID implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	emp, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// GetActive implements employee.EmployeeRepository.
func (r *EmployeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := make([]employee.Employee, 0, len(r.s.employees))
	for _, emp := range r.s.employees {
		if emp.EmploymentStatus == employee.EmploymentStatusActive {
			active = append(active, emp)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}
