package salarystructure

import (
	"net/http"
	"time"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateSalaryStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Supersede(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Current(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee_id is required", nil)
		return
	}

	var asOf time.Time
	if v := c.Query("as_of"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid as_of date, expected YYYY-MM-DD", nil)
			return
		}
		asOf = parsed
	}

	resp, err := h.service.CurrentStructure(c.Request.Context(), actor, employeeID, asOf)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employee_id is required", nil)
		return
	}

	resp, err := h.service.GetAllByEmployee(c.Request.Context(), actor, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
