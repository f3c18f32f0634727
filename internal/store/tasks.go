package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"task-tracker/internal/errutil"
	"task-tracker/internal/validate"
)

// DefaultTaskStatus is stored when a task is created without a status.
const DefaultTaskStatus = "assigned"

const taskColumns = `id, task_name, employee_name, employee_id, email, task_description,
	allocated_date, deadline, status, created_at`

// Tasks is the repository for the tasks table. Rows are append-only.
type Tasks struct {
	db  *sql.DB
	now func() time.Time
}

func NewTasks(db *sql.DB) *Tasks {
	return &Tasks{db: db, now: time.Now}
}

// List returns tasks newest first, restricted to employeeID when it is set.
func (r *Tasks) List(ctx context.Context, employeeID string) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if employeeID != "" {
		if err := validate.TaskEmployeeID(employeeID); err != nil {
			return nil, err
		}
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err, "list tasks")
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storageErr(err, "scan task")
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "list tasks")
	}
	return tasks, nil
}

// Create validates in and inserts a new task. The id is the creation time in
// Unix milliseconds; a clash with an existing id is reported as Conflict.
func (r *Tasks) Create(ctx context.Context, in TaskInput) (*Task, error) {
	if err := validate.RequireFields(
		validate.Field{Name: "taskName", Value: in.TaskName},
		validate.Field{Name: "employeeName", Value: in.EmployeeName},
		validate.Field{Name: "employeeId", Value: in.EmployeeID},
		validate.Field{Name: "email", Value: in.Email},
		validate.Field{Name: "taskDescription", Value: in.TaskDescription},
		validate.Field{Name: "allocatedDate", Value: in.AllocatedDate},
		validate.Field{Name: "deadline", Value: in.Deadline},
	); err != nil {
		return nil, err
	}
	if err := validate.TaskEmployeeID(in.EmployeeID); err != nil {
		return nil, err
	}
	if err := validate.CompanyEmail(in.Email); err != nil {
		return nil, err
	}
	allocated, err := validate.Date("allocatedDate", in.AllocatedDate)
	if err != nil {
		return nil, err
	}
	deadline, err := validate.Date("deadline", in.Deadline)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = DefaultTaskStatus
	}
	id := strconv.FormatInt(r.now().UnixMilli(), 10)

	row := r.db.QueryRowContext(ctx, `INSERT INTO tasks
		(id, task_name, employee_name, employee_id, email, task_description, allocated_date, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+taskColumns,
		id, in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.TaskDescription, allocated, deadline, status,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, storageErr(err, "create task")
	}
	return t, nil
}

// Get returns the task with the exact id.
func (r *Tasks) Get(ctx context.Context, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if isNoRows(err) {
		return nil, errutil.NotFound("Task not found")
	}
	if err != nil {
		return nil, storageErr(err, "get task")
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*Task, error) {
	var t Task
	err := s.Scan(&t.ID, &t.TaskName, &t.EmployeeName, &t.EmployeeID, &t.Email, &t.TaskDescription,
		&t.AllocatedDate, &t.Deadline, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
