package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"task-tracker/internal/errutil"
	"task-tracker/internal/store"
)

// uploadDocField is the multipart field carrying the optional document.
const uploadDocField = "uploadDoc"

// maxMemoryBytes is how much of a multipart form is buffered before parts
// spill to temporary files.
const maxMemoryBytes = 8 << 20

type historyCreateResp struct {
	Success bool                 `json:"success"`
	Data    *store.HistoryRecord `json:"data"`
	Message string               `json:"message"`
}

// listHistory handles GET /api/task-history?employeeId=.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.history.List(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// getHistory handles GET /api/task-history/{id}.
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// getHistoryFile handles GET /api/task-history/{id}/file. The Content-Type
// comes from the document's leading bytes, not from the upload.
func (s *Server) getHistoryFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.history.File(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, f.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)

	s.metrics.RecordFileServed()
}

// createHistory handles POST /api/task-history. The request runs through
// historyUploadStages in order; the first failing stage answers the request.
func (s *Server) createHistory(w http.ResponseWriter, r *http.Request) {
	u := &historyUpload{w: w, r: r}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	for _, stage := range historyUploadStages {
		if err := stage.run(u); err != nil {
			s.metrics.RecordUploadRejected(stage.name)
			s.writeError(w, r, err)
			return
		}
	}

	rec, err := s.history.Create(r.Context(), u.input, u.doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.RecordUpload(len(u.doc))
	s.requestLogger(r).Info("task_history_created",
		zap.Int64("id", rec.ID),
		zap.String("employee_id", rec.EmployeeID),
		zap.Bool("has_file", rec.HasFile),
		zap.Int("bytes", len(u.doc)),
	)

	writeJSON(w, http.StatusOK, historyCreateResp{
		Success: true,
		Data:    rec,
		Message: "Task history created successfully",
	})
}

// historyUpload is the state threaded through the upload stages.
type historyUpload struct {
	w http.ResponseWriter
	r *http.Request

	input store.HistoryInput

	hasFile  bool
	declared string
	size     int64
	doc      []byte
}

type uploadStage struct {
	name string
	run  func(*historyUpload) error
}

var historyUploadStages = []uploadStage{
	{"parse", parseUploadForm},
	{"fields", validateUploadFields},
	{"file_type", checkUploadType},
	{"file_size", checkUploadSize},
	{"read", readUploadDoc},
}

func parseUploadForm(u *historyUpload) error {
	u.r.Body = http.MaxBytesReader(u.w, u.r.Body, maxFormBytes)
	if err := u.r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return ValidateUploadSize(mbe.Limit + 1)
		}
		return errutil.Validation("Invalid multipart form data")
	}

	form := u.r.MultipartForm
	u.input = store.HistoryInput{
		TaskName:     formValue(form.Value, "taskName"),
		EmployeeName: formValue(form.Value, "employeeName"),
		EmployeeID:   formValue(form.Value, "employeeId"),
		Email:        formValue(form.Value, "email"),
		Description:  formValue(form.Value, "description"),
		TaskStatus:   formValue(form.Value, "taskStatus"),
	}

	if files := form.File[uploadDocField]; len(files) > 0 {
		fh := files[0]
		u.hasFile = true
		u.declared = fh.Header.Get("Content-Type")
		u.size = fh.Size
	}
	return nil
}

func validateUploadFields(u *historyUpload) error {
	return store.ValidateInput(u.input)
}

func checkUploadType(u *historyUpload) error {
	if !u.hasFile {
		return nil
	}
	return ValidateUploadMimeType(u.declared)
}

func checkUploadSize(u *historyUpload) error {
	if !u.hasFile {
		return nil
	}
	return ValidateUploadSize(u.size)
}

func readUploadDoc(u *historyUpload) error {
	if !u.hasFile {
		return nil
	}
	f, err := u.r.MultipartForm.File[uploadDocField][0].Open()
	if err != nil {
		return errutil.Storage("Failed to read uploaded file", err)
	}
	defer f.Close()

	doc, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return errutil.Storage("Failed to read uploaded file", err)
	}
	if err := ValidateUploadSize(int64(len(doc))); err != nil {
		return err
	}
	u.doc = doc
	return nil
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
