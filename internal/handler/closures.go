package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClosureHandler struct{ svc service.ClosureService }

func NewClosureHandler(svc service.ClosureService) *ClosureHandler {
	return &ClosureHandler{svc: svc}
}

// Create godoc
// @Summary Registra un cierre de caja
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateClosureRequest true "Datos del cierre"
// @Success 201 {object} dto.ClosureResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/closures [post]
func (h *ClosureHandler) Create(c *gin.Context) {
	var req dto.CreateClosureRequest
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
// @Summary Obtiene un cierre por id
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Success 200 {object} dto.ClosureResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/closures/{id} [get]
func (h *ClosureHandler) Get(c *gin.Context) {
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
// @Summary Lista cierres con filtros y paginacion
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param worker_id query string false "Filtrar por trabajador"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param start_date query string false "Desde (YYYY-MM-DD)"
// @Param end_date query string false "Hasta (YYYY-MM-DD)"
// @Param closure_number query int false "Numero de cierre"
// @Param has_discrepancy query bool false "Solo cierres con discrepancia"
// @Param order_by query string false "date_desc|date_asc|sales_desc|sales_asc|discrepancy_desc"
// @Param offset query int false "Offset"
// @Param limit query int false "Limite (max 100)"
// @Success 200 {object} dto.ClosureListResponse
// @Router /v1/closures [get]
func (h *ClosureHandler) List(c *gin.Context) {
	filter := dto.ClosureFilter{
		WorkerID:      c.Query("worker_id"),
		BranchID:      c.Query("branch_id"),
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		ClosureNumber: queryInt(c, "closure_number", 0),
		OrderBy:       c.Query("order_by"),
		Offset:        queryInt(c, "offset", 0),
		Limit:         queryInt(c, "limit", 50),
	}
	if raw := c.Query("has_discrepancy"); raw != "" {
		v := raw == "true" || raw == "1"
		filter.HasDiscrepancy = &v
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Corrige un cierre; los totales derivados se recalculan
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Param body body dto.UpdateClosureRequest true "Campos a corregir"
// @Success 200 {object} dto.ClosureResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/closures/{id} [put]
func (h *ClosureHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdateClosureRequest
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
// @Summary Elimina un cierre (solo admin)
// @Tags cierres
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/closures/{id} [delete]
func (h *ClosureHandler) Delete(c *gin.Context) {
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
// @Summary Cambia el estado de revision de un cierre (solo admin)
// @Tags cierres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cierre"
// @Param body body dto.ReviewUpdateRequest true "Nuevo estado"
// @Success 200 {object} dto.ClosureResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/closures/{id}/review [patch]
func (h *ClosureHandler) UpdateReview(c *gin.Context) {
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

// ListPendingReview godoc
// @Summary Lista cierres pendientes de revision (solo admin)
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ClosureResponse
// @Router /v1/closures/pending-review [get]
func (h *ClosureHandler) ListPendingReview(c *gin.Context) {
	resp, err := h.svc.ListPendingReview(c.Request.Context(), queryInt(c, "offset", 0), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByReviewState godoc
// @Summary Lista cierres por estado de revision (solo admin)
// @Tags cierres
// @Produce json
// @Security BearerAuth
// @Param state path string true "pending|approved|rejected"
// @Success 200 {array} dto.ClosureResponse
// @Router /v1/closures/review/{state} [get]
func (h *ClosureHandler) ListByReviewState(c *gin.Context) {
	resp, err := h.svc.ListByReviewState(c.Request.Context(), c.Param("state"), queryInt(c, "offset", 0), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
