package handlers

import (
	"net/http"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	reads := r.Group("/subscriptions")
	reads.Use(middleware.AuthMiddleware())
	{
		reads.GET("/athlete/:athleteId", h.ListForAthlete)
		reads.GET("/athlete/:athleteId/active", h.GetActive)
	}

	admin := r.Group("/subscriptions")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("", h.CreateSubscription)
		admin.PUT("/replace", h.ReplaceSubscription)
		admin.PUT("/:subscriptionId/cancel", h.CancelSubscription)
		admin.POST("/coupon", h.AttachCoupon)
		admin.DELETE("/coupon/:athleteId", h.ClearCoupon)
	}
}

func (h *SubscriptionHandler) ListForAthlete(c *gin.Context) {
	subs, err := h.subscriptionService.ListByAthlete(h.GetDB(c), c.Param("athleteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subs,
		"total":         len(subs),
	})
}

func (h *SubscriptionHandler) GetActive(c *gin.Context) {
	sub, err := h.subscriptionService.GetActive(h.GetDB(c), c.Param("athleteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Create(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Subscription created",
		"subscription": sub,
	})
}

// ReplaceSubscription retires the athlete's current subscription and
// opens a new one against the requested plan.
func (h *SubscriptionHandler) ReplaceSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.CreateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Replace(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Subscription replaced",
		"subscription": sub,
	})
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.Cancel(h.GetDB(c), c.Param("subscriptionId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Subscription canceled",
	})
}

func (h *SubscriptionHandler) AttachCoupon(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.AttachCouponRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.AttachCoupon(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Coupon attached",
		"subscription": sub,
	})
}

func (h *SubscriptionHandler) ClearCoupon(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.ClearCoupon(h.GetDB(c), c.Param("athleteId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon cleared",
	})
}
