package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schooltrack/attendance-api/internal/service"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
	"github.com/schooltrack/attendance-api/pkg/response"
)

// AttendanceHandler exposes attendance marking and listing endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param date query string false "ISO date"
// @Param subject_id query string false "Subject"
// @Param student_id query string false "Student"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	q := service.AttendanceListQuery{
		Date:      c.Query("date"),
		SubjectID: c.Query("subject_id"),
		StudentID: c.Query("student_id"),
	}
	records, err := h.attendance.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

type markRequest struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	SubjectID string `json:"subject_id"`
	Status    string `json:"status"`
}

// Mark godoc
// @Summary Mark one student's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body markRequest true "Attendance entry"
// @Success 200 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.attendance.BulkMark(c.Request.Context(), service.BulkMarkRequest{
		Date:      req.Date,
		SubjectID: req.SubjectID,
		Items: []service.BulkAttendanceItem{
			{StudentID: req.StudentID, Status: req.Status},
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"marked": count}, nil)
}

// BulkMark godoc
// @Summary Mark a class subject for one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.BulkMarkRequest true "Attendance batch"
// @Success 200 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	var req service.BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.attendance.BulkMark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"marked": count}, nil)
}
