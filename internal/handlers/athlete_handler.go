package handlers

import (
	"net/http"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AthleteHandler struct {
	*BaseHandler
	athleteService services.AthleteService
}

func NewAthleteHandler(base *BaseHandler, athleteService services.AthleteService) *AthleteHandler {
	return &AthleteHandler{
		BaseHandler:    base,
		athleteService: athleteService,
	}
}

func (h *AthleteHandler) RegisterRoutes(r *gin.RouterGroup) {
	athletes := r.Group("/athletes")
	athletes.Use(middleware.AuthMiddleware())
	{
		athletes.GET("", h.ListAthletes)
		athletes.GET("/:athleteId", h.GetAthlete)
	}

	admin := r.Group("/athletes")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("", h.RegisterAthlete)
		admin.POST("/onboard", h.OnboardAthlete)
		admin.PUT("/:athleteId/status", h.UpdateAthleteStatus)
	}
}

func (h *AthleteHandler) ListAthletes(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.AthleteFilter{
		Status:   models.AthleteStatus(c.Query("status")),
		Search:   c.Query("q"),
		Page:     page,
		PageSize: pageSize,
	}

	athletes, total, err := h.athleteService.List(h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"athletes": athletes,
		"total":    total,
		"page":     page,
	})
}

func (h *AthleteHandler) GetAthlete(c *gin.Context) {
	athlete, err := h.athleteService.Get(h.GetDB(c), c.Param("athleteId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, athlete)
}

func (h *AthleteHandler) RegisterAthlete(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.RegisterAthleteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	athlete, err := h.athleteService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Athlete " + athlete.AthleteNumber + " registered",
		"athlete": athlete,
	})
}

func (h *AthleteHandler) OnboardAthlete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req models.OnboardAthleteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.athleteService.Onboard(h.GetDB(c), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      result.Message,
		"athlete":      result.Athlete,
		"subscription": result.Subscription,
		"invoice":      result.Invoice,
	})
}

func (h *AthleteHandler) UpdateAthleteStatus(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req struct {
		Status models.AthleteStatus `json:"status" binding:"required"`
	}
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.athleteService.UpdateStatus(h.GetDB(c), c.Param("athleteId"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Athlete status updated",
	})
}
