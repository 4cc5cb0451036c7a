package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BranchHandler struct{ svc service.BranchService }

func NewBranchHandler(svc service.BranchService) *BranchHandler {
	return &BranchHandler{svc: svc}
}

// Create godoc
// @Summary Crea una sucursal (solo admin)
// @Tags sucursales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateBranchRequest true "Datos de la sucursal"
// @Success 201 {object} dto.BranchResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
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
// @Summary Obtiene una sucursal por id
// @Tags sucursales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sucursal"
// @Success 200 {object} dto.BranchResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
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
// @Summary Lista sucursales
// @Tags sucursales
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Incluir inactivas"
// @Success 200 {array} dto.BranchResponse
// @Router /v1/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Actualiza una sucursal (solo admin)
// @Tags sucursales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la sucursal"
// @Param body body dto.UpdateBranchRequest true "Campos a actualizar"
// @Success 200 {object} dto.BranchResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.UpdateBranchRequest
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
