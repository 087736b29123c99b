package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fot-analytics-api/internal/middleware"
	"github.com/google/uuid"
)

// maxRequestBody ограничивает тело запроса, включая загружаемые CSV файлы.
const maxRequestBody = 32 << 20

// Router настраивает маршруты API
type Router struct {
	mux              *http.ServeMux
	logger           *slog.Logger
	directoryHandler *DirectoryHandler
	employeeHandler  *EmployeeHandler
	reportHandler    *ReportHandler
	historyHandler   *HistoryHandler
	loadHandler      *LoadHandler
}

// NewRouter создаёт новый роутер
func NewRouter(
	directoryHandler *DirectoryHandler,
	employeeHandler *EmployeeHandler,
	reportHandler *ReportHandler,
	historyHandler *HistoryHandler,
	loadHandler *LoadHandler,
	logger *slog.Logger,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		logger:           logger,
		directoryHandler: directoryHandler,
		employeeHandler:  employeeHandler,
		reportHandler:    reportHandler,
		historyHandler:   historyHandler,
		loadHandler:      loadHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("/departments/", r.directoryRouter)
	r.mux.HandleFunc("/divisions/", r.directoryRouter)
	r.mux.HandleFunc("/groups/", r.directoryRouter)
	r.mux.HandleFunc("/employees/", r.employeesRouter)
	r.mux.HandleFunc("/reports/", r.reportsRouter)
	r.mux.HandleFunc("/salary-history/", r.historyRouter)
	r.mux.HandleFunc("/load/", r.loadRouter)
	r.mux.HandleFunc("/import-files/", r.importFilesRouter)
	r.mux.HandleFunc("/import-rows/issues", r.issuesRouter)

	// Health check
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.MaxBody(maxRequestBody)(handler)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}

// directoryRouter обрабатывает запросы к /departments/, /divisions/ и /groups/
func (r *Router) directoryRouter(w http.ResponseWriter, req *http.Request) {
	parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	unit := parts[0]

	if len(parts) == 1 || parts[1] == "" {
		if unit == "departments" && req.Method == http.MethodPost {
			r.directoryHandler.CreateDepartment(w, req)
			return
		}
		methodNotAllowed(w)
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid id"}`, http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 3 && parts[2] == "manager" && req.Method == http.MethodPost:
		r.directoryHandler.AssignManager(w, req, unit, id)
	case len(parts) == 2 && unit == "departments" && req.Method == http.MethodGet:
		r.directoryHandler.GetDepartment(w, req, id)
	case len(parts) == 2 && unit == "departments" && req.Method == http.MethodDelete:
		r.directoryHandler.DeleteDepartment(w, req, id)
	default:
		notFound(w)
	}
}

// employeesRouter обрабатывает запросы к /employees/
func (r *Router) employeesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/employees"), "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.employeeHandler.Create(w, req)
		case http.MethodGet:
			r.employeeHandler.List(w, req)
		default:
			methodNotAllowed(w)
		}
		return
	}

	parts := strings.Split(path, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid employee id"}`, http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && req.Method == http.MethodGet:
		r.employeeHandler.GetByID(w, req, id)
	case len(parts) == 1 && req.Method == http.MethodDelete:
		r.employeeHandler.Delete(w, req, id)
	case len(parts) == 2 && parts[1] == "compensation" && req.Method == http.MethodPut:
		r.employeeHandler.UpdateCompensation(w, req, id)
	case len(parts) == 2 && parts[1] == "deactivate" && req.Method == http.MethodPost:
		r.employeeHandler.Deactivate(w, req, id)
	default:
		notFound(w)
	}
}

// reportsRouter обрабатывает все запросы к /reports/
func (r *Router) reportsRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/reports"), "/")

	switch {
	case path == "department-delta" && req.Method == http.MethodGet:
		r.reportHandler.DepartmentDelta(w, req)
	case path == "custom" && req.Method == http.MethodPost:
		r.reportHandler.CustomReport(w, req)
	case path == "salary-history" && req.Method == http.MethodGet:
		r.reportHandler.SalaryHistoryReport(w, req)
	case path == "fot-summary" && req.Method == http.MethodGet:
		r.reportHandler.FOTSummary(w, req)
	default:
		notFound(w)
	}
}

// historyRouter обрабатывает запросы к /salary-history/
func (r *Router) historyRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/salary-history"), "/")

	if path == "" && req.Method == http.MethodPost {
		r.historyHandler.Append(w, req)
		return
	}

	methodNotAllowed(w)
}

// loadRouter обрабатывает запросы к /load/{entity}
func (r *Router) loadRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	entity := strings.Trim(strings.TrimPrefix(req.URL.Path, "/load"), "/")
	r.loadHandler.LoadEntity(w, req, entity)
}

// importFilesRouter обрабатывает запросы к /import-files/
func (r *Router) importFilesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.Trim(strings.TrimPrefix(req.URL.Path, "/import-files"), "/")

	if path == "" {
		if req.Method == http.MethodPost {
			r.loadHandler.RegisterImport(w, req)
			return
		}
		methodNotAllowed(w)
		return
	}

	parts := strings.Split(path, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, `{"error":"invalid import file id"}`, http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && req.Method == http.MethodGet:
		r.loadHandler.GetImport(w, req, id)
	case len(parts) == 2 && parts[1] == "rows" && req.Method == http.MethodGet:
		r.loadHandler.ListImportRows(w, req, id)
	default:
		notFound(w)
	}
}

// issuesRouter обрабатывает запросы к /import-rows/issues
func (r *Router) issuesRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.loadHandler.CreateIssues(w, req)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}
