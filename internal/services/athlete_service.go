package services

import (
	"time"

	"academy_backend/internal/billing"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AthleteService interface {
	Register(db *gorm.DB, req *models.RegisterAthleteRequest) (*models.Athlete, error)
	Onboard(db *gorm.DB, req *models.OnboardAthleteRequest, actor string) (*models.OnboardAthleteResult, error)
	Get(db *gorm.DB, id string) (*models.Athlete, error)
	List(db *gorm.DB, filter repositories.AthleteFilter) ([]models.Athlete, int64, error)
	UpdateStatus(db *gorm.DB, id string, status models.AthleteStatus) error
}

type AthleteServiceImpl struct {
	athleteRepo repositories.AthleteRepository
	planRepo    repositories.PlanRepository
	couponRepo  repositories.CouponRepository
	seqRepo     repositories.SequenceRepository
	subService  SubscriptionService
	invService  InvoiceService
}

func NewAthleteService(
	athleteRepo repositories.AthleteRepository,
	planRepo repositories.PlanRepository,
	couponRepo repositories.CouponRepository,
	seqRepo repositories.SequenceRepository,
	subService SubscriptionService,
	invService InvoiceService,
) AthleteService {
	return &AthleteServiceImpl{
		athleteRepo: athleteRepo,
		planRepo:    planRepo,
		couponRepo:  couponRepo,
		seqRepo:     seqRepo,
		subService:  subService,
		invService:  invService,
	}
}

func (s *AthleteServiceImpl) Register(db *gorm.DB, req *models.RegisterAthleteRequest) (*models.Athlete, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	athlete, err := s.registerInTx(tx, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return athlete, nil
}

// Onboard registers the athlete, opens the first subscription and
// issues the initial invoice in one transaction. The athlete stays
// PENDING until that invoice is fully paid.
func (s *AthleteServiceImpl) Onboard(db *gorm.DB, req *models.OnboardAthleteRequest, actor string) (*models.OnboardAthleteResult, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	plan, err := s.planRepo.FindByID(tx, req.PlanID)
	if err != nil {
		return nil, handlePlanError(err)
	}
	if plan.Archived {
		return nil, apperrors.ErrPlanArchived
	}
	if !plan.IsActive {
		return nil, apperrors.ErrInvalidStatus("plan", "Subscription plan is not active")
	}

	now := time.Now().UTC()

	var couponID *string
	if req.CouponCode != nil && *req.CouponCode != "" {
		coupon, err := s.couponRepo.FindByCode(tx, *req.CouponCode)
		if err != nil {
			return nil, handleCouponError(err)
		}
		if err := billing.ValidateCoupon(coupon, now); err != nil {
			return nil, err
		}
		if !billing.CouponAppliesTo(coupon, plan.Interval) {
			return nil, apperrors.ErrInvalidOperation("coupon",
				"Coupon does not apply to this plan's billing interval")
		}
		couponID = &coupon.ID
	}

	athlete, err := s.registerInTx(tx, &req.RegisterAthleteRequest)
	if err != nil {
		return nil, err
	}

	sub, err := s.subService.OpenForAthlete(tx, athlete, plan, couponID, actor, now)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invService.IssueForSubscription(tx, athlete, sub, true, actor, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.OnboardAthleteResult{
		Athlete:      athlete,
		Subscription: sub,
		Invoice:      invoice,
		Message:      "Athlete onboarded; initial invoice " + invoice.InvoiceNumber + " issued",
	}, nil
}

func (s *AthleteServiceImpl) Get(db *gorm.DB, id string) (*models.Athlete, error) {
	athlete, err := s.athleteRepo.FindByID(db, id)
	if err != nil {
		return nil, handleAthleteError(err)
	}
	return athlete, nil
}

func (s *AthleteServiceImpl) List(db *gorm.DB, filter repositories.AthleteFilter) ([]models.Athlete, int64, error) {
	athletes, total, err := s.athleteRepo.List(db, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return athletes, total, nil
}

func (s *AthleteServiceImpl) UpdateStatus(db *gorm.DB, id string, status models.AthleteStatus) error {
	switch status {
	case models.AthleteStatusPending, models.AthleteStatusActive,
		models.AthleteStatusSuspended, models.AthleteStatusDeactivated:
	default:
		return apperrors.NewBadRequestError("Unknown athlete status")
	}

	if _, err := s.athleteRepo.FindByID(db, id); err != nil {
		return handleAthleteError(err)
	}
	if err := s.athleteRepo.UpdateStatus(db, id, status); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AthleteServiceImpl) registerInTx(tx *gorm.DB, req *models.RegisterAthleteRequest) (*models.Athlete, error) {
	number, err := s.seqRepo.NextAthleteNumber(tx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	athlete := &models.Athlete{
		AthleteNumber: number,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        models.AthleteStatusPending,
	}

	if err := s.athleteRepo.Create(tx, athlete); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return athlete, nil
}
