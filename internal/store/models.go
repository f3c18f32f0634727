package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"task-tracker/internal/validate"
)

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(validate.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(validate.DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("store: cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) parse(s string) error {
	if len(s) > len(validate.DateLayout) {
		s = s[:len(validate.DateLayout)]
	}
	t, err := time.Parse(validate.DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

type Employee struct {
	EmpID      string  `json:"emp_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
}

type Task struct {
	ID              string    `json:"id"`
	TaskName        string    `json:"task_name"`
	EmployeeName    string    `json:"employee_name"`
	EmployeeID      string    `json:"employee_id"`
	Email           string    `json:"email"`
	TaskDescription string    `json:"task_description"`
	AllocatedDate   Date      `json:"allocated_date"`
	Deadline        Date      `json:"deadline"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// TaskInput is the create-task request body.
type TaskInput struct {
	TaskName        string `json:"taskName"`
	EmployeeName    string `json:"employeeName"`
	EmployeeID      string `json:"employeeId"`
	Email           string `json:"email"`
	TaskDescription string `json:"taskDescription"`
	AllocatedDate   string `json:"allocatedDate"`
	Deadline        string `json:"deadline"`
	Status          string `json:"status"`
}

// HistoryRecord is a task_history row without its blob.
type HistoryRecord struct {
	ID            int64     `json:"id"`
	TaskName      string    `json:"task_name"`
	EmployeeName  string    `json:"employee_name"`
	EmployeeID    string    `json:"employee_id"`
	Email         string    `json:"email"`
	Description   string    `json:"description"`
	TaskStatus    string    `json:"task_status"`
	AllocatedTime time.Time `json:"allocated_time"`
	HasFile       bool      `json:"has_file"`
}

// HistoryInput carries the text fields of the task-history upload form.
type HistoryInput struct {
	TaskName     string
	EmployeeName string
	EmployeeID   string
	Email        string
	Description  string
	TaskStatus   string
}

// HistoryFile is a stored document ready to be served.
type HistoryFile struct {
	Data        []byte
	ContentType string
	Name        string
}
