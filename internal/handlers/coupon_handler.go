package handlers

import (
	"net/http"
	"time"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	*BaseHandler
	couponService services.CouponService
}

func NewCouponHandler(base *BaseHandler, couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		BaseHandler:   base,
		couponService: couponService,
	}
}

func (h *CouponHandler) RegisterRoutes(r *gin.RouterGroup) {
	coupons := r.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware())
	{
		coupons.GET("", h.ListCoupons)
		coupons.POST("/validate", h.ValidateCoupon)
	}

	admin := r.Group("/coupons")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("", h.CreateCoupon)
		admin.PUT("/:couponId", h.UpdateCoupon)
		admin.DELETE("/:couponId", h.VoidCoupon)
	}
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.List(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

// ValidateCoupon is a dry run: it reports eligibility without
// counting a use.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Validate(h.GetDB(c), req.Code, time.Now().UTC())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon is valid",
		"coupon":  coupon,
	})
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.CreateCouponRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Coupon created",
		"coupon":  coupon,
	})
}

func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.UpdateCouponRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.Update(h.GetDB(c), c.Param("couponId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon updated",
		"coupon":  coupon,
	})
}

func (h *CouponHandler) VoidCoupon(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	if err := h.couponService.Void(h.GetDB(c), c.Param("couponId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon voided",
	})
}
