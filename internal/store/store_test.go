package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/errutil"
)

var (
	taskCols    = []string{"id", "task_name", "employee_name", "employee_id", "email", "task_description", "allocated_date", "deadline", "status", "created_at"}
	historyCols = []string{"id", "task_name", "employee_name", "employee_id", "email", "description", "task_status", "allocated_time", "has_file"}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func validTaskInput() TaskInput {
	return TaskInput{
		TaskName:        "Quarterly report",
		EmployeeName:    "Asha Rao",
		EmployeeID:      "ATS0123",
		Email:           "asha.rao@astrolitetech.com",
		TaskDescription: "Compile Q3 numbers",
		AllocatedDate:   "2024-07-01",
		Deadline:        "2024-07-15",
	}
}

func TestEmployees_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployees(db)

	mock.ExpectQuery(`SELECT emp_id, name, email, department FROM employees WHERE emp_id = \$1`).
		WithArgs("TSA0042").
		WillReturnRows(sqlmock.NewRows([]string{"emp_id", "name", "email", "department"}).
			AddRow("TSA0042", "Ravi", "ravi@astrolitetech.com", nil))

	e, err := repo.Get(context.Background(), "TSA0042")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", e.Name)
	assert.Nil(t, e.Department)
}

func TestEmployees_Get_Errors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployees(db)

	_, err := repo.Get(context.Background(), "ATS0000")
	assert.True(t, errutil.Is(err, errutil.KindInvalidFormat))

	mock.ExpectQuery(`FROM employees`).WithArgs("ATS0001").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "ATS0001")
	assert.True(t, errutil.Is(err, errutil.KindNotFound))
}

func TestTasks_List(t *testing.T) {
	created := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM tasks ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow("2", "b", "Asha", "ATS0123", "a@astrolitetech.com", "d", day, day, "assigned", created).
				AddRow("1", "a", "Asha", "ATS0123", "a@astrolitetech.com", "d", day, day, "done", created))

		tasks, err := NewTasks(db).List(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "2", tasks[0].ID)
		assert.Equal(t, "2024-07-01", tasks[0].AllocatedDate.String())
	})

	t.Run("filtered", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE employee_id = \$1 ORDER BY created_at DESC`).
			WithArgs("ATS0123").
			WillReturnRows(sqlmock.NewRows(taskCols))

		tasks, err := NewTasks(db).List(context.Background(), "ATS0123")
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("bad filter never queries", func(t *testing.T) {
		db, _ := newMock(t)
		_, err := NewTasks(db).List(context.Background(), "TSA0123")
		assert.True(t, errutil.Is(err, errutil.KindInvalidFormat))
	})
}

func TestTasks_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTasks(db)
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	allocated := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	id := "1719824400000"

	in := validTaskInput()
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(id, in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.TaskDescription, allocated, deadline, DefaultTaskStatus).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(id, in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.TaskDescription, allocated, deadline, DefaultTaskStatus, now))

	task, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Equal(t, DefaultTaskStatus, task.Status)
	assert.Equal(t, "2024-07-15", task.Deadline.String())
	assert.Equal(t, now, task.CreatedAt)
}

func TestTasks_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*TaskInput)
		kind  errutil.Kind
		field string
	}{
		{"missing name", func(in *TaskInput) { in.TaskName = "" }, errutil.KindMissingField, "taskName"},
		{"missing email", func(in *TaskInput) { in.Email = "" }, errutil.KindMissingField, "email"},
		{"lookup-only prefix", func(in *TaskInput) { in.EmployeeID = "TSA0123" }, errutil.KindInvalidFormat, "employeeId"},
		{"foreign email", func(in *TaskInput) { in.Email = "asha@other.com" }, errutil.KindInvalidFormat, "email"},
		{"bad date", func(in *TaskInput) { in.Deadline = "15/07/2024" }, errutil.KindInvalidFormat, "deadline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newMock(t)
			in := validTaskInput()
			tt.edit(&in)

			_, err := NewTasks(db).Create(context.Background(), in)
			e, ok := errutil.As(err)
			require.True(t, ok, "want *errutil.Error, got %v", err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestTasks_Create_Conflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO tasks`).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	_, err := NewTasks(db).Create(context.Background(), validTaskInput())
	assert.True(t, errutil.Is(err, errutil.KindConflict))
}

func TestTasks_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTasks(db)

	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, errutil.Is(err, errutil.KindNotFound))

	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).WithArgs("1").WillReturnError(errors.New("connection reset"))
	_, err = repo.Get(context.Background(), "1")
	assert.True(t, errutil.Is(err, errutil.KindStorage))
	assert.Contains(t, err.Error(), "get task: connection reset")
}

func TestHistory_List(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+)upload_doc IS NOT NULL AS has_file FROM task_history WHERE employee_id = \$1 ORDER BY allocated_time DESC`).
		WithArgs("ATS0123").
		WillReturnRows(sqlmock.NewRows(historyCols).
			AddRow(int64(2), "t", "Asha", "ATS0123", "a@astrolitetech.com", "d", "completed", at, true).
			AddRow(int64(1), "t", "Asha", "ATS0123", "a@astrolitetech.com", "d", "completed", at, false))

	recs, err := NewHistory(db).List(context.Background(), "ATS0123")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].HasFile)
	assert.False(t, recs[1].HasFile)
}

func TestHistory_Create(t *testing.T) {
	in := HistoryInput{
		TaskName:     "Quarterly report",
		EmployeeName: "Asha Rao",
		EmployeeID:   "ATS0123",
		Email:        "asha.rao@astrolitetech.com",
		Description:  "Submitted",
		TaskStatus:   "completed",
	}
	at := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)

	t.Run("without document", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO task_history`).
			WithArgs(in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.Description, nil, in.TaskStatus).
			WillReturnRows(sqlmock.NewRows(historyCols).
				AddRow(int64(7), in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.Description, in.TaskStatus, at, false))

		rec, err := NewHistory(db).Create(context.Background(), in, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(7), rec.ID)
		assert.False(t, rec.HasFile)
	})

	t.Run("with document", func(t *testing.T) {
		db, mock := newMock(t)
		doc := []byte("%PDF-1.7")
		mock.ExpectQuery(`INSERT INTO task_history`).
			WithArgs(in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.Description, doc, in.TaskStatus).
			WillReturnRows(sqlmock.NewRows(historyCols).
				AddRow(int64(8), in.TaskName, in.EmployeeName, in.EmployeeID, in.Email, in.Description, in.TaskStatus, at, true))

		rec, err := NewHistory(db).Create(context.Background(), in, doc)
		require.NoError(t, err)
		assert.True(t, rec.HasFile)
	})

	t.Run("invalid employee", func(t *testing.T) {
		db, _ := newMock(t)
		bad := in
		bad.EmployeeID = "ATS123"
		_, err := NewHistory(db).Create(context.Background(), bad, nil)
		assert.True(t, errutil.Is(err, errutil.KindInvalidFormat))
	})
}

func TestHistory_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewHistory(db)

	_, err := repo.Get(context.Background(), "abc")
	assert.True(t, errutil.Is(err, errutil.KindNotFound))

	mock.ExpectQuery(`FROM task_history WHERE id = \$1`).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "3")
	assert.True(t, errutil.Is(err, errutil.KindNotFound))
}

func TestHistory_File(t *testing.T) {
	t.Run("sniffed", func(t *testing.T) {
		db, mock := newMock(t)
		png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
		mock.ExpectQuery(`SELECT upload_doc FROM task_history WHERE id = \$1`).WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"upload_doc"}).AddRow(png))

		f, err := NewHistory(db).File(context.Background(), "4")
		require.NoError(t, err)
		assert.Equal(t, png, f.Data)
		assert.Equal(t, "image/png", f.ContentType)
		assert.Equal(t, "task-history-4.png", f.Name)
	})

	t.Run("no document", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT upload_doc FROM task_history`).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"upload_doc"}).AddRow(nil))

		_, err := NewHistory(db).File(context.Background(), "5")
		assert.True(t, errutil.Is(err, errutil.KindNotFound))
	})

	t.Run("no row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT upload_doc FROM task_history`).WithArgs(int64(6)).WillReturnError(sql.ErrNoRows)

		_, err := NewHistory(db).File(context.Background(), "6")
		assert.True(t, errutil.Is(err, errutil.KindNotFound))
	})
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(d.Time))

	require.NoError(t, back.Scan("2024-03-01T00:00:00Z"))
	assert.Equal(t, "2024-03-01", back.String())
	assert.Error(t, back.Scan(42))
}
