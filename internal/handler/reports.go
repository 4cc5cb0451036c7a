package handler

import (
	"net/http"

	"github.com/sushitlalpan/sushi-be/internal/apierror"
	"github.com/sushitlalpan/sushi-be/internal/dto"
	"github.com/sushitlalpan/sushi-be/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReportHandler struct {
	svc            service.ReportService
	alertRecipient string
}

func NewReportHandler(svc service.ReportService, alertRecipient string) *ReportHandler {
	return &ReportHandler{svc: svc, alertRecipient: alertRecipient}
}

func reportParams(c *gin.Context) (dto.ReportParams, bool) {
	params := dto.ReportParams{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		BranchID:  c.Query("branch_id"),
		WorkerID:  c.Query("worker_id"),
	}
	if raw := c.Query("min_discrepancy"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"min_discrepancy": "monto invalido"}))
			return params, false
		}
		params.MinDiscrepancy = &min
	}
	return params, true
}

// Summary godoc
// @Summary Resumen de ventas del periodo (solo admin)
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Desde (YYYY-MM-DD)"
// @Param end_date query string true "Hasta (YYYY-MM-DD)"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param worker_id query string false "Filtrar por trabajador"
// @Success 200 {object} dto.PeriodSummary
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports/sales/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	params, ok := reportParams(c)
	if !ok {
		return
	}
	resp, err := h.svc.PeriodSummary(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Period godoc
// @Summary Reporte completo del periodo con desgloses (solo admin)
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Desde (YYYY-MM-DD)"
// @Param end_date query string true "Hasta (YYYY-MM-DD)"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param worker_id query string false "Filtrar por trabajador"
// @Success 200 {object} dto.PeriodReport
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports/sales/period [get]
func (h *ReportHandler) Period(c *gin.Context) {
	params, ok := reportParams(c)
	if !ok {
		return
	}
	resp, err := h.svc.PeriodReport(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Discrepancies godoc
// @Summary Reporte de discrepancias del periodo (solo admin)
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Desde (YYYY-MM-DD)"
// @Param end_date query string true "Hasta (YYYY-MM-DD)"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param worker_id query string false "Filtrar por trabajador"
// @Param min_discrepancy query string false "Discrepancia absoluta minima"
// @Success 200 {object} dto.DiscrepancyReport
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports/sales/discrepancies [get]
func (h *ReportHandler) Discrepancies(c *gin.Context) {
	params, ok := reportParams(c)
	if !ok {
		return
	}
	resp, err := h.svc.DiscrepancyReport(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DiscrepanciesPDF godoc
// @Summary Encola la generacion del PDF de discrepancias (solo admin)
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Desde (YYYY-MM-DD)"
// @Param end_date query string true "Hasta (YYYY-MM-DD)"
// @Param branch_id query string false "Filtrar por sucursal"
// @Param worker_id query string false "Filtrar por trabajador"
// @Success 202 {object} map[string]string
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reports/sales/discrepancies/pdf [post]
func (h *ReportHandler) DiscrepanciesPDF(c *gin.Context) {
	params, ok := reportParams(c)
	if !ok {
		return
	}

	// Claims carry no email address, so the report goes to the configured
	// admin mailbox unless the caller names another destination.
	toEmail := c.Query("to_email")
	if toEmail == "" {
		toEmail = h.alertRecipient
	}

	if err := h.svc.EnqueueDiscrepancyPDF(c.Request.Context(), params, toEmail); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "encolado", "to_email": toEmail})
}
