package store

import (
	"context"
	"database/sql"

	"task-tracker/internal/errutil"
	"task-tracker/internal/validate"
)

// Employees reads the externally provisioned employees table.
type Employees struct {
	db *sql.DB
}

func NewEmployees(db *sql.DB) *Employees {
	return &Employees{db: db}
}

// Get returns the employee with empID after checking it against the lookup
// predicate.
func (r *Employees) Get(ctx context.Context, empID string) (*Employee, error) {
	if err := validate.LookupEmployeeID(empID); err != nil {
		return nil, err
	}

	var e Employee
	err := r.db.QueryRowContext(ctx,
		`SELECT emp_id, name, email, department FROM employees WHERE emp_id = $1`, empID,
	).Scan(&e.EmpID, &e.Name, &e.Email, &e.Department)
	if isNoRows(err) {
		return nil, errutil.NotFound("Employee not found")
	}
	if err != nil {
		return nil, storageErr(err, "get employee")
	}
	return &e, nil
}
