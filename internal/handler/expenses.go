package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpenseHandler struct{ svc service.ExpenseService }

func NewExpenseHandler(svc service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Create godoc
// @Summary Registra un gasto
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateExpenseRequest true "Datos del gasto"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
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
// @Summary Obtiene un gasto por id
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del gasto"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
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
// @Summary Lista gastos con filtros y paginacion
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param branch_id query string false "Filtrar por sucursal"
// @Param start_date query string false "Desde (YYYY-MM-DD)"
// @Param end_date query string false "Hasta (YYYY-MM-DD)"
// @Param offset query int false "Offset"
// @Param limit query int false "Limite (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, total, err := h.svc.List(
		c.Request.Context(),
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
	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "total_count": total})
}

// Update godoc
// @Summary Corrige un gasto
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del gasto"
// @Param body body dto.UpdateExpenseRequest true "Campos a corregir"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdateExpenseRequest
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
// @Summary Elimina un gasto (solo admin)
// @Tags gastos
// @Security BearerAuth
// @Param id path string true "ID del gasto"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
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
// @Summary Cambia el estado de revision de un gasto (solo admin)
// @Tags gastos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del gasto"
// @Param body body dto.ReviewUpdateRequest true "Nuevo estado"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/expenses/{id}/review [patch]
func (h *ExpenseHandler) UpdateReview(c *gin.Context) {
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

// Summary godoc
// @Summary Resumen de gastos del periodo (solo admin)
// @Tags gastos
// @Produce json
// @Security BearerAuth
// @Param branch_id query string false "Filtrar por sucursal"
// @Param start_date query string false "Desde (YYYY-MM-DD)"
// @Param end_date query string false "Hasta (YYYY-MM-DD)"
// @Success 200 {object} dto.ExpensePeriodSummary
// @Router /v1/expenses/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	resp, err := h.svc.PeriodSummary(
		c.Request.Context(),
		c.Query("branch_id"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
