// internal/handlers/student/student_handler.go
package student

import (
	"net/http"
	"strconv"

	"incluso-service/internal/domain/student"
	"incluso-service/internal/middleware"
	"incluso-service/internal/pkg/response"
	service "incluso-service/internal/service/student"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	studentService *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent adds a student under the account's plan limit.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req student.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.studentService.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, "failed to create student", err)
		return
	}

	response.Success(c, http.StatusCreated, "student created", result)
}

// ListStudents returns all students of the account.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	students, err := h.studentService.List(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, "failed to list students", err)
		return
	}

	response.Success(c, http.StatusOK, "students retrieved", students)
}

// GetStudent returns one student of the account.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid student ID", err)
		return
	}

	result, err := h.studentService.Get(c.Request.Context(), accountID, studentID)
	if err != nil {
		response.FromError(c, "failed to get student", err)
		return
	}

	response.Success(c, http.StatusOK, "student retrieved", result)
}

// DeleteStudent removes a student and releases quota.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid student ID", err)
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), accountID, studentID); err != nil {
		response.FromError(c, "failed to delete student", err)
		return
	}

	response.Success(c, http.StatusOK, "student deleted", nil)
}
