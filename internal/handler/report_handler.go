package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schooltrack/attendance-api/internal/service"
	"github.com/schooltrack/attendance-api/pkg/response"
)

// ReportHandler exposes attendance reporting and export endpoints.
type ReportHandler struct {
	reports  *service.ReportService
	exporter *service.ExportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, exporter *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter}
}

func reportQueryFromContext(c *gin.Context) service.ReportQuery {
	threshold := 100.0
	if raw := c.Query("threshold"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = v
		}
	}
	return service.ReportQuery{
		DateStart: c.Query("date_start"),
		DateEnd:   c.Query("date_end"),
		SubjectID: c.Query("subject_id"),
		Search:    c.Query("search"),
		Threshold: threshold,
		Grade:     c.Query("grade"),
		Section:   c.Query("section"),
	}
}

// List godoc
// @Summary Attendance reports over a date window
// @Tags Reports
// @Produce json
// @Param date_start query string true "Window start (YYYY-MM-DD)"
// @Param date_end query string true "Window end (YYYY-MM-DD)"
// @Param subject_id query string false "Restrict to one subject"
// @Param search query string false "Student name search"
// @Param threshold query number false "Keep reports at or below this percentage"
// @Param grade query string false "Filter by grade"
// @Param section query string false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reports.Reports(c.Request.Context(), reportQueryFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// Trend godoc
// @Summary Per-day status counts for one class and subject
// @Tags Reports
// @Produce json
// @Param grade query string true "Grade"
// @Param section query string true "Section"
// @Param subject_id query string true "Subject"
// @Param date_start query string true "Window start (YYYY-MM-DD)"
// @Param date_end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/trend [get]
func (h *ReportHandler) Trend(c *gin.Context) {
	trend, err := h.reports.ClassTrend(c.Request.Context(), service.TrendQuery{
		Grade:     c.Query("grade"),
		Section:   c.Query("section"),
		SubjectID: c.Query("subject_id"),
		DateStart: c.Query("date_start"),
		DateEnd:   c.Query("date_end"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trend, nil)
}

// StudentCard godoc
// @Summary One student's attendance card
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param date_start query string true "Window start (YYYY-MM-DD)"
// @Param date_end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/students/{id} [get]
func (h *ReportHandler) StudentCard(c *gin.Context) {
	card, err := h.reports.StudentCard(c.Request.Context(), c.Param("id"), c.Query("date_start"), c.Query("date_end"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card, nil)
}

// StudentSubjects godoc
// @Summary Per-subject breakdown for one student
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param date_start query string true "Window start (YYYY-MM-DD)"
// @Param date_end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/students/{id}/subjects [get]
func (h *ReportHandler) StudentSubjects(c *gin.Context) {
	summaries, err := h.reports.SubjectSummaries(c.Request.Context(), c.Param("id"), c.Query("date_start"), c.Query("date_end"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Export godoc
// @Summary Download the filtered report set
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param date_start query string true "Window start (YYYY-MM-DD)"
// @Param date_end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {file} byte
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	result, err := h.exporter.Export(c.Request.Context(), service.ExportRequest{
		ReportQuery: reportQueryFromContext(c),
		Format:      c.DefaultQuery("format", "csv"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
