package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/export"
	"github.com/medvault/medvault/internal/filestore"
	"github.com/medvault/medvault/internal/pipeline"
	"github.com/medvault/medvault/internal/repository"
)

// Server wires the HTTP surface: routes, middleware and the dependencies
// handlers need.
type Server struct {
	echo     *echo.Echo
	cfg      *common.Config
	logger   *slog.Logger
	patients repository.PatientRepository
	docs     repository.DocumentRepository
	rxs      repository.PrescriptionRepository
	reports  repository.MedicalReportRepository
	files    *filestore.Store
	pipe     *pipeline.Pipeline
	exporter *export.Service
}

type Deps struct {
	Patients repository.PatientRepository
	Docs     repository.DocumentRepository
	Rxs      repository.PrescriptionRepository
	Reports  repository.MedicalReportRepository
	Files    *filestore.Store
	Pipe     *pipeline.Pipeline
	Exporter *export.Service
}

func New(cfg *common.Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(requestIDIntoContext)

	s := &Server{
		echo:     e,
		cfg:      cfg,
		logger:   logger,
		patients: deps.Patients,
		docs:     deps.Docs,
		rxs:      deps.Rxs,
		reports:  deps.Reports,
		files:    deps.Files,
		pipe:     deps.Pipe,
		exporter: deps.Exporter,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/health", s.health)

	e.POST("/patients", s.createPatient)
	e.GET("/patients", s.listPatients)
	e.GET("/patients/:id", s.getPatient)
	e.PUT("/patients/:id", s.updatePatient)
	e.DELETE("/patients/:id", s.deletePatient)

	e.POST("/patients/:id/documents", s.uploadDocument)
	e.GET("/patients/:id/documents", s.listDocuments)
	e.GET("/documents/:id", s.getDocument)
	e.GET("/documents/:id/download", s.downloadDocument)
	e.DELETE("/documents/:id", s.deleteDocument)

	e.GET("/patients/:id/prescriptions", s.listPrescriptions)
	e.GET("/patients/:id/prescriptions/search", s.searchPrescriptions)
	e.GET("/prescriptions/:id", s.getPrescription)
	e.PUT("/prescriptions/:id", s.updatePrescription)
	e.DELETE("/prescriptions/:id", s.deletePrescription)

	e.GET("/patients/:id/medical-reports", s.listReports)
	e.GET("/patients/:id/medical-reports/search", s.searchReports)
	e.GET("/medical-reports/:id", s.getReport)
	e.PUT("/medical-reports/:id", s.updateReport)
	e.DELETE("/medical-reports/:id", s.deleteReport)

	e.GET("/patients/:id/export/prescriptions.xlsx", s.exportPrescriptions)
	e.GET("/patients/:id/export/reports.xlsx", s.exportReports)
}

// requestIDIntoContext copies echo's request ID into the request context
// so layers below the handlers can log it.
func requestIDIntoContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ctx := common.WithRequestID(c.Request().Context(), rid)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server.listening", "addr", s.cfg.Server.Addr)
	return s.echo.Start(s.cfg.Server.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
