package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PayrollHandler struct{ svc service.PayrollService }

func NewPayrollHandler(svc service.PayrollService) *PayrollHandler {
	return &PayrollHandler{svc: svc}
}

// Create godoc
// @Summary Registra un periodo de nomina (solo admin)
// @Tags nomina
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePayrollRequest true "Datos del periodo"
// @Success 201 {object} dto.PayrollResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/payroll [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	var req dto.CreatePayrollRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Obtiene un registro de nomina por id
// @Tags nomina
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del registro"
// @Success 200 {object} dto.PayrollResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/payroll/{id} [get]
func (h *PayrollHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lista registros de nomina con filtros
// @Tags nomina
// @Produce json
// @Security BearerAuth
// @Param worker_id query string false "Filtrar por trabajador"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param start_date query string false "Periodo desde (YYYY-MM-DD)"
// @Param end_date query string false "Periodo hasta (YYYY-MM-DD)"
// @Param offset query int false "Offset"
// @Param limit query int false "Limite (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /v1/payroll [get]
func (h *PayrollHandler) List(c *gin.Context) {
	records, total, err := h.svc.List(
		c.Request.Context(),
		c.Query("worker_id"),
		c.Query("branch_id"),
		c.Query("start_date"),
		c.Query("end_date"),
		queryInt(c, "offset", 0),
		queryInt(c, "limit", 50),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": records, "total_count": total})
}

// Update godoc
// @Summary Corrige un registro de nomina; gross y net se recalculan (solo admin)
// @Tags nomina
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del registro"
// @Param body body dto.UpdatePayrollRequest true "Campos a corregir"
// @Success 200 {object} dto.PayrollResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/payroll/{id} [put]
func (h *PayrollHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdatePayrollRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Elimina un registro de nomina (solo admin)
// @Tags nomina
// @Security BearerAuth
// @Param id path string true "ID del registro"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/payroll/{id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateReview godoc
// @Summary Cambia el estado de revision de un registro de nomina (solo admin)
// @Tags nomina
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del registro"
// @Param body body dto.ReviewUpdateRequest true "Nuevo estado"
// @Success 200 {object} dto.PayrollResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/payroll/{id}/review [patch]
func (h *PayrollHandler) UpdateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ReviewUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateReview(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
