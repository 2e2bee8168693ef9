// internal/handlers/report/report_handler.go
package report

import (
	"net/http"
	"strconv"

	"incluso-service/internal/domain/report"
	"incluso-service/internal/middleware"
	"incluso-service/internal/pkg/response"
	service "incluso-service/internal/service/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// CreateReport writes a manual report for a student.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req report.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.reportService.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, "failed to create report", err)
		return
	}

	response.Success(c, http.StatusCreated, "report created", result)
}

// GenerateReport drafts a report with the assistant.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req report.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, "failed to generate report", err)
		return
	}

	response.Success(c, http.StatusCreated, "report generated", result)
}

// ListReports returns the reports of one student.
func (h *ReportHandler) ListReports(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	studentID, err := strconv.ParseInt(c.Param("studentId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid student ID", err)
		return
	}

	reports, err := h.reportService.ListByStudent(c.Request.Context(), accountID, studentID)
	if err != nil {
		response.FromError(c, "failed to list reports", err)
		return
	}

	response.Success(c, http.StatusOK, "reports retrieved", reports)
}
