package handlers

import (
	"net/http"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	reads := r.Group("/payments")
	reads.Use(middleware.AuthMiddleware())
	{
		reads.GET("/invoice/:invoiceId", h.ListForInvoice)
		reads.GET("/athlete/:athleteId", h.ListForAthlete)
	}

	admin := r.Group("/payments")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("", h.RecordPayment)
	}
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.RecordPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	receipt, err := h.paymentService.RecordPayment(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           receipt.Message,
		"receipt_number":    receipt.ReceiptNumber,
		"invoice_number":    receipt.InvoiceNumber,
		"invoice_status":    receipt.InvoiceStatus,
		"remaining":         receipt.Remaining,
		"athlete_activated": receipt.AthleteActivated,
	})
}

func (h *PaymentHandler) ListForInvoice(c *gin.Context) {
	payments, err := h.paymentService.ListByInvoice(h.GetDB(c), c.Param("invoiceId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

func (h *PaymentHandler) ListForAthlete(c *gin.Context) {
	payments, err := h.paymentService.ListByAthlete(h.GetDB(c), c.Param("athleteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}
