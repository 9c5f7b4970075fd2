package http

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workspace-migrator/internal/migration/domain/repository"
	apperrors "workspace-migrator/internal/shared/errors"
)

// ReportServer exposes persisted migration reports and run history over
// HTTP for audit tooling. Read-only; it never triggers migrations.
type ReportServer struct {
	reportDir string
	history   repository.RunHistory // nil disables /runs
	logger    *zap.Logger
}

// NewReportServer creates a ReportServer.
func NewReportServer(reportDir string, history repository.RunHistory, logger *zap.Logger) *ReportServer {
	return &ReportServer{
		reportDir: reportDir,
		history:   history,
		logger:    logger,
	}
}

// App builds the fiber application with all routes registered.
func (s *ReportServer) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "workspace-migrator reports",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Get("/healthz", s.handleHealth)
	app.Get("/reports", s.handleListReports)
	app.Get("/reports/:name", s.handleGetReport)
	app.Get("/runs", s.handleRecentRuns)

	return app
}

// handleError maps typed application errors onto HTTP statuses. Anything
// untyped surfaces as a 500.
func (s *ReportServer) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	appErr := apperrors.WrapError(err, "internal error")
	status := fiber.StatusInternalServerError
	switch {
	case apperrors.IsValidation(appErr):
		status = fiber.StatusBadRequest
	case apperrors.IsNotFound(appErr):
		status = fiber.StatusNotFound
	}
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": appErr.Message})
}

func (s *ReportServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type reportInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (s *ReportServer) handleListReports(c *fiber.Ctx) error {
	entries, err := os.ReadDir(s.reportDir)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON([]reportInfo{})
		}
		return apperrors.WrapError(err, "failed to list reports")
	}

	reports := make([]reportInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, reportInfo{Name: entry.Name(), Size: info.Size()})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name > reports[j].Name })
	return c.JSON(reports)
}

func (s *ReportServer) handleGetReport(c *fiber.Ctx) error {
	// filepath.Base strips any traversal components from the parameter.
	name := filepath.Base(c.Params("name"))
	if !strings.HasSuffix(name, ".json") {
		return apperrors.NewValidationError("report name must end in .json").WithDetail("name", name)
	}

	payload, err := os.ReadFile(filepath.Join(s.reportDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewNotFoundError("report " + name)
		}
		return apperrors.WrapError(err, "failed to read report").WithDetail("name", name)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

func (s *ReportServer) handleRecentRuns(c *fiber.Ctx) error {
	if s.history == nil {
		return apperrors.NewNotFoundError("run history")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	entries, err := s.history.Recent(c.Context(), limit)
	if err != nil {
		return apperrors.WrapError(err, "failed to query run history")
	}
	if entries == nil {
		entries = []repository.RunEntry{}
	}
	return c.JSON(entries)
}
