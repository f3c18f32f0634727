package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"task-tracker/internal/errutil"
	"task-tracker/internal/sniff"
	"task-tracker/internal/validate"
)

const historyColumns = `id, task_name, employee_name, employee_id, email, description, task_status,
	allocated_time, upload_doc IS NOT NULL AS has_file`

// History is the repository for task_history records and their documents.
//
// Documents are checked against the upload allow-list and size ceiling by the
// caller; here they are stored as opaque bytes.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// List returns records newest first with has_file set instead of the blob.
func (r *History) List(ctx context.Context, employeeID string) ([]HistoryRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM task_history`
	var args []any
	if employeeID != "" {
		if err := validate.TaskEmployeeID(employeeID); err != nil {
			return nil, err
		}
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY allocated_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err, "list task history")
	}
	defer rows.Close()

	records := make([]HistoryRecord, 0)
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, storageErr(err, "scan task history")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "list task history")
	}
	return records, nil
}

// ValidateInput runs the field checks Create applies. Callers use it to fail
// fast before reading an uploaded document.
func ValidateInput(in HistoryInput) error {
	if err := validate.RequireFields(
		validate.Field{Name: "taskName", Value: in.TaskName},
		validate.Field{Name: "employeeName", Value: in.EmployeeName},
		validate.Field{Name: "employeeId", Value: in.EmployeeID},
		validate.Field{Name: "email", Value: in.Email},
		validate.Field{Name: "description", Value: in.Description},
		validate.Field{Name: "taskStatus", Value: in.TaskStatus},
	); err != nil {
		return err
	}
	if err := validate.TaskEmployeeID(in.EmployeeID); err != nil {
		return err
	}
	return validate.CompanyEmail(in.Email)
}

// Create inserts a record. A nil doc is stored as NULL.
func (r *History) Create(ctx context.Context, in HistoryInput, doc []byte) (*HistoryRecord, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	var upload any
	if doc != nil {
		upload = doc
	}

	row := r.db.QueryRowContext(ctx, `INSERT INTO task_history
		(task_name, employee_name, employee_id, email, description, upload_doc, task_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+historyColumns,
		in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.Description, upload, in.TaskStatus,
	)
	rec, err := scanHistory(row)
	if err != nil {
		return nil, storageErr(err, "create task history")
	}
	return rec, nil
}

// Get returns the metadata of one record.
func (r *History) Get(ctx context.Context, id string) (*HistoryRecord, error) {
	n, ok := parseHistoryID(id)
	if !ok {
		return nil, errHistoryNotFound()
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM task_history WHERE id = $1`, n)
	rec, err := scanHistory(row)
	if isNoRows(err) {
		return nil, errHistoryNotFound()
	}
	if err != nil {
		return nil, storageErr(err, "get task history")
	}
	return rec, nil
}

// File returns the stored document of a record, labelled by its leading
// bytes. A record without a document is NotFound.
func (r *History) File(ctx context.Context, id string) (*HistoryFile, error) {
	n, ok := parseHistoryID(id)
	if !ok {
		return nil, errHistoryNotFound()
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT upload_doc FROM task_history WHERE id = $1`, n).Scan(&data)
	if isNoRows(err) {
		return nil, errHistoryNotFound()
	}
	if err != nil {
		return nil, storageErr(err, "get task history file")
	}
	if data == nil {
		return nil, errutil.NotFound("No file attached to this record")
	}

	ct := sniff.ContentType(data)
	return &HistoryFile{
		Data:        data,
		ContentType: ct,
		Name:        fmt.Sprintf("task-history-%d%s", n, sniff.Extension(ct)),
	}, nil
}

func parseHistoryID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}

func errHistoryNotFound() error {
	return errutil.NotFound("Task history record not found")
}

func scanHistory(s scanner) (*HistoryRecord, error) {
	var h HistoryRecord
	err := s.Scan(&h.ID, &h.TaskName, &h.EmployeeName, &h.EmployeeID, &h.Email, &h.Description, &h.TaskStatus,
		&h.AllocatedTime, &h.HasFile)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
