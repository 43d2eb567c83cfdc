package handlers

import (
	"net/http"

	"academy_backend/internal/middleware"
	"academy_backend/internal/models"
	"academy_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/plans")
	plans.Use(middleware.AuthMiddleware())
	{
		plans.GET("", h.ListPlans)
		plans.GET("/:planId", h.GetPlan)
	}

	admin := r.Group("/plans")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.AdminRoles...))
	{
		admin.POST("", h.CreatePlan)
		admin.PUT("/:planId", h.UpdatePlan)
		admin.DELETE("/:planId", h.ArchivePlan)
	}
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	plans, err := h.planService.List(h.GetDB(c), includeArchived)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": plans,
		"total": len(plans),
	})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.planService.Get(h.GetDB(c), c.Param("planId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.CreatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Plan created successfully",
		"plan":    plan,
	})
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req models.UpdatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(h.GetDB(c), c.Param("planId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Plan updated successfully",
		"plan":    plan,
	})
}

func (h *PlanHandler) ArchivePlan(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	if err := h.planService.Archive(h.GetDB(c), c.Param("planId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Plan archived",
	})
}
