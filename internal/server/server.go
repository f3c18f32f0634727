package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"task-tracker/internal/config"
	"task-tracker/internal/store"
)

// EmployeeStore reads provisioned employees.
type EmployeeStore interface {
	Get(ctx context.Context, empID string) (*store.Employee, error)
}

// TaskStore is the task repository contract.
type TaskStore interface {
	List(ctx context.Context, employeeID string) ([]store.Task, error)
	Create(ctx context.Context, in store.TaskInput) (*store.Task, error)
	Get(ctx context.Context, id string) (*store.Task, error)
}

// HistoryStore is the task-history repository contract.
type HistoryStore interface {
	List(ctx context.Context, employeeID string) ([]store.HistoryRecord, error)
	Create(ctx context.Context, in store.HistoryInput, doc []byte) (*store.HistoryRecord, error)
	Get(ctx context.Context, id string) (*store.HistoryRecord, error)
	File(ctx context.Context, id string) (*store.HistoryFile, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Readiness reports whether the schema initializer has finished.
type Readiness interface {
	Ready() bool
}

type Config struct {
	Addr      string // e.g. "0.0.0.0:3000"
	StaticDir string
	Version   string
	RateLimit config.RateLimitConfig
}

// Deps are the collaborators injected into the server.
type Deps struct {
	Employees EmployeeStore
	Tasks     TaskStore
	History   HistoryStore
	DB        Pinger
	Schema    Readiness
	Log       *zap.Logger
	Metrics   *Metrics
}

type Server struct {
	cfg        Config
	employees  EmployeeStore
	tasks      TaskStore
	history    HistoryStore
	db         Pinger
	schema     Readiness
	log        *zap.Logger
	metrics    *Metrics
	apiLimiter *rateLimiter
	upLimiter  *rateLimiter
	httpServer *http.Server
}

func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		employees: deps.Employees,
		tasks:     deps.Tasks,
		history:   deps.History,
		db:        deps.DB,
		schema:    deps.Schema,
		log:       deps.Log,
		metrics:   deps.Metrics,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(cfg.Version)
	}
	s.apiLimiter = newRateLimiter(ratePerSecond(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	s.upLimiter = newRateLimiter(ratePerMinute(cfg.RateLimit.UploadPerMin), cfg.RateLimit.UploadPerMin)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /api/employees/{empId}", s.getEmployee)

	mux.HandleFunc("GET /api/tasks", s.listTasks)
	mux.HandleFunc("POST /api/tasks", s.createTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.getTask)

	mux.HandleFunc("GET /api/task-history", s.listHistory)
	mux.HandleFunc("POST /api/task-history", s.createHistory)
	mux.HandleFunc("GET /api/task-history/{id}", s.getHistory)
	mux.HandleFunc("GET /api/task-history/{id}/file", s.getHistoryFile)

	mux.HandleFunc("GET /hr", s.staticPage("hr.html"))
	mux.HandleFunc("GET /employee", s.staticPage("employee.html"))

	// Everything else, including a known path with the wrong method.
	mux.HandleFunc("/", s.notFound)

	// Wrap middleware: requestID -> logging -> security -> compression -> rate limit -> mux
	var handler http.Handler = mux
	handler = s.rateLimitMiddleware(handler)
	handler = compressionMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler exposes the full middleware chain, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("http_listening", zap.String("addr", ln.Addr().String()))
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.apiLimiter.stop()
	s.upLimiter.stop()
	return s.httpServer.Shutdown(ctx)
}
