package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schooltrack/attendance-api/internal/service"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
	"github.com/schooltrack/attendance-api/pkg/response"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students *service.StudentService
	importer *service.ImportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, importer *service.ImportService) *StudentHandler {
	return &StudentHandler{students: students, importer: importer}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param grade query string false "Filter by grade"
// @Param section query string false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	grade := strings.TrimSpace(c.Query("grade"))
	section := strings.TrimSpace(c.Query("section"))
	students, err := h.students.List(c.Request.Context(), grade, section)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Get godoc
// @Summary Get a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Enroll a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.AddStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.students.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Import godoc
// @Summary Import students from CSV
// @Tags Students
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read body"))
		return
	}
	summary, err := h.importer.ImportStudents(c.Request.Context(), string(body))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
