package services

import (
	"encoding/json"

	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PlanService interface {
	Create(db *gorm.DB, req *models.CreatePlanRequest) (*models.SubscriptionPlan, error)
	Update(db *gorm.DB, id string, req *models.UpdatePlanRequest) (*models.SubscriptionPlan, error)
	Get(db *gorm.DB, id string) (*models.SubscriptionPlan, error)
	List(db *gorm.DB, includeArchived bool) ([]models.SubscriptionPlan, error)
	Archive(db *gorm.DB, id string) error
}

type PlanServiceImpl struct {
	planRepo repositories.PlanRepository
}

func NewPlanService(planRepo repositories.PlanRepository) PlanService {
	return &PlanServiceImpl{planRepo: planRepo}
}

func (s *PlanServiceImpl) Create(db *gorm.DB, req *models.CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewBadRequestError("Plan amount must be greater than zero")
	}

	plan := &models.SubscriptionPlan{
		Name:     req.Name,
		Amount:   req.Amount,
		Interval: req.Interval,
		IsActive: true,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Perks != nil {
		perks, err := json.Marshal(req.Perks)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid perks payload")
		}
		plan.Perks = perks
	}

	if err := s.planRepo.Create(db, plan); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plan, nil
}

func (s *PlanServiceImpl) Update(db *gorm.DB, id string, req *models.UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.FindByID(db, id)
	if err != nil {
		return nil, handlePlanError(err)
	}
	if plan.Archived {
		return nil, apperrors.ErrPlanArchived
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewBadRequestError("Plan amount must be greater than zero")
		}
		plan.Amount = *req.Amount
	}
	if req.Interval != nil {
		plan.Interval = *req.Interval
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Perks != nil {
		perks, err := json.Marshal(req.Perks)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid perks payload")
		}
		plan.Perks = perks
	}

	if err := s.planRepo.Update(db, plan); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plan, nil
}

func (s *PlanServiceImpl) Get(db *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.FindByID(db, id)
	if err != nil {
		return nil, handlePlanError(err)
	}
	return plan, nil
}

func (s *PlanServiceImpl) List(db *gorm.DB, includeArchived bool) ([]models.SubscriptionPlan, error) {
	plans, err := s.planRepo.List(db, includeArchived)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plans, nil
}

// Archive retires a plan from the catalog. Existing subscriptions
// keep referencing it; only new sign-ups are blocked.
func (s *PlanServiceImpl) Archive(db *gorm.DB, id string) error {
	if err := s.planRepo.Archive(db, id); err != nil {
		return handlePlanError(err)
	}
	return nil
}

func handlePlanError(err error) error {
	if apperrors.Is(err, repositories.ErrPlanNotFound) {
		return apperrors.ErrNotFound(err, "Subscription plan")
	}
	return apperrors.InternalError(err)
}
