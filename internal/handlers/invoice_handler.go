package handlers

import (
	"net/http"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	*BaseHandler
	invoiceService services.InvoiceService
}

func NewInvoiceHandler(base *BaseHandler, invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler:    base,
		invoiceService: invoiceService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(r *gin.RouterGroup) {
	reads := r.Group("/invoices")
	reads.Use(middleware.AuthMiddleware())
	{
		reads.GET("", h.ListInvoices)
		reads.GET("/:invoiceId", h.GetInvoice)
	}

	admin := r.Group("/invoices")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("/bulk", h.CreateBulk)
		admin.PUT("/:invoiceId", h.EditInvoice)
		admin.PUT("/:invoiceId/status", h.TransitionStatus)
	}
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.InvoiceFilter{
		AthleteID: c.Query("athlete_id"),
		Status:    models.InvoiceStatus(c.Query("status")),
		Type:      models.InvoiceType(c.Query("type")),
		Page:      page,
		PageSize:  pageSize,
	}

	invoices, total, err := h.invoiceService.List(h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"total":    total,
		"page":     page,
	})
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.Get(h.GetDB(c), c.Param("invoiceId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// CreateBulk issues invoices for a set of athletes all-or-nothing.
func (h *InvoiceHandler) CreateBulk(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.BulkInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.CreateBulk(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         result.Message,
		"invoice_numbers": result.InvoiceNumbers,
	})
}

func (h *InvoiceHandler) EditInvoice(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.EditInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Edit(h.GetDB(c), c.Param("invoiceId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invoice updated",
		"invoice": invoice,
	})
}

func (h *InvoiceHandler) TransitionStatus(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.TransitionInvoiceStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.TransitionStatus(h.GetDB(c), c.Param("invoiceId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invoice status updated",
		"invoice": invoice,
	})
}
