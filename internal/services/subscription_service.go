package services

import (
	"time"

	"academy_backend/internal/billing"
	"academy_backend/internal/logger"
	"academy_backend/internal/models"
	"academy_backend/internal/repositories"
	"academy_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SubscriptionService interface {
	Create(db *gorm.DB, req *models.CreateSubscriptionRequest, actor string) (*models.AthleteSubscription, error)
	Replace(db *gorm.DB, req *models.CreateSubscriptionRequest, actor string) (*models.AthleteSubscription, error)
	Cancel(db *gorm.DB, subscriptionID, actor string) error
	AttachCoupon(db *gorm.DB, req *models.AttachCouponRequest, actor string) (*models.AthleteSubscription, error)
	ClearCoupon(db *gorm.DB, athleteID, actor string) error
	GetActive(db *gorm.DB, athleteID string) (*models.AthleteSubscription, error)
	ListByAthlete(db *gorm.DB, athleteID string) ([]models.AthleteSubscription, error)

	// OpenForAthlete creates the ACTIVE row inside the caller's
	// transaction. The caller must have verified there is no other
	// ACTIVE subscription for the athlete.
	OpenForAthlete(tx *gorm.DB, athlete *models.Athlete, plan *models.SubscriptionPlan, couponID *string, actor string, now time.Time) (*models.AthleteSubscription, error)

	// ExpireLapsed retires ACTIVE non-renewing subscriptions whose
	// period has ended. Used by the background sweeper.
	ExpireLapsed(db *gorm.DB, now time.Time) (int, error)
}

type SubscriptionServiceImpl struct {
	subRepo     repositories.SubscriptionRepository
	planRepo    repositories.PlanRepository
	athleteRepo repositories.AthleteRepository
	couponRepo  repositories.CouponRepository
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.PlanRepository,
	athleteRepo repositories.AthleteRepository,
	couponRepo repositories.CouponRepository,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subRepo:     subRepo,
		planRepo:    planRepo,
		athleteRepo: athleteRepo,
		couponRepo:  couponRepo,
	}
}

func (s *SubscriptionServiceImpl) Create(db *gorm.DB, req *models.CreateSubscriptionRequest, actor string) (*models.AthleteSubscription, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	athlete, plan, err := s.loadAthleteAndPlan(tx, req.AthleteID, req.PlanID)
	if err != nil {
		return nil, err
	}

	// Existence is re-checked inside the transaction; the partial
	// unique index on (athlete_id) WHERE status = 'ACTIVE' backs
	// this up against concurrent creates.
	if _, err := s.subRepo.FindActiveByAthlete(tx, req.AthleteID); err == nil {
		return nil, apperrors.ErrDuplicateActiveSubscription
	} else if !apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.OpenForAthlete(tx, athlete, plan, nil, actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return sub, nil
}

// Replace retires every ACTIVE subscription of the athlete and opens
// the new one in the same transaction, so the single-active invariant
// holds even mid plan switch.
func (s *SubscriptionServiceImpl) Replace(db *gorm.DB, req *models.CreateSubscriptionRequest, actor string) (*models.AthleteSubscription, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	athlete, plan, err := s.loadAthleteAndPlan(tx, req.AthleteID, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	retired, err := s.subRepo.DeactivateActiveForAthlete(tx, req.AthleteID, actor, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.OpenForAthlete(tx, athlete, plan, nil, actor, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("subscription replaced",
		"athlete_id", req.AthleteID, "plan_id", req.PlanID, "retired", retired)
	return sub, nil
}

func (s *SubscriptionServiceImpl) Cancel(db *gorm.DB, subscriptionID, actor string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	sub, err := s.subRepo.FindByID(tx, subscriptionID)
	if err != nil {
		return handleSubscriptionError(err)
	}
	if sub.Status != models.SubscriptionStatusActive {
		return apperrors.ErrSubscriptionNotActive
	}

	now := time.Now().UTC()
	sub.Status = models.SubscriptionStatusCanceled
	sub.EndDate = &now
	sub.AutoRenew = false
	sub.CancelAtPeriodEnd = false
	sub.UpdatedBy = actor

	if err := s.subRepo.Update(tx, sub); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.athleteRepo.UpdateNextBillingDate(tx, sub.AthleteID, nil); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// AttachCoupon is idempotent for the same coupon; attaching a
// different one while another is attached is rejected rather than
// silently overridden.
func (s *SubscriptionServiceImpl) AttachCoupon(db *gorm.DB, req *models.AttachCouponRequest, actor string) (*models.AthleteSubscription, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	sub, err := s.subRepo.FindActiveByAthlete(tx, req.AthleteID)
	if err != nil {
		return nil, handleSubscriptionError(err)
	}

	coupon, err := s.couponRepo.FindByCode(tx, req.Code)
	if err != nil {
		return nil, handleCouponError(err)
	}

	if sub.CouponID != nil {
		if *sub.CouponID == coupon.ID {
			// Re-attaching the same coupon is a no-op.
			return sub, nil
		}
		return nil, apperrors.ErrCouponAlreadyAttached
	}

	now := time.Now().UTC()
	if err := billing.ValidateCoupon(coupon, now); err != nil {
		return nil, err
	}
	if !billing.CouponAppliesTo(coupon, sub.Plan.Interval) {
		return nil, apperrors.ErrInvalidOperation("coupon",
			"Coupon does not apply to this plan's billing interval")
	}

	sub.CouponID = &coupon.ID
	sub.UpdatedBy = actor
	if err := s.subRepo.Update(tx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	sub.Coupon = coupon
	return sub, nil
}

func (s *SubscriptionServiceImpl) ClearCoupon(db *gorm.DB, athleteID, actor string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	sub, err := s.subRepo.FindActiveByAthlete(tx, athleteID)
	if err != nil {
		return handleSubscriptionError(err)
	}
	if sub.CouponID == nil {
		return nil
	}

	sub.CouponID = nil
	sub.Coupon = nil
	sub.UpdatedBy = actor
	if err := s.subRepo.Update(tx, sub); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *SubscriptionServiceImpl) GetActive(db *gorm.DB, athleteID string) (*models.AthleteSubscription, error) {
	sub, err := s.subRepo.FindActiveByAthlete(db, athleteID)
	if err != nil {
		return nil, handleSubscriptionError(err)
	}
	return sub, nil
}

func (s *SubscriptionServiceImpl) ListByAthlete(db *gorm.DB, athleteID string) ([]models.AthleteSubscription, error) {
	subs, err := s.subRepo.ListByAthlete(db, athleteID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return subs, nil
}

func (s *SubscriptionServiceImpl) OpenForAthlete(tx *gorm.DB, athlete *models.Athlete, plan *models.SubscriptionPlan, couponID *string, actor string, now time.Time) (*models.AthleteSubscription, error) {
	periodStart, periodEnd := billing.PeriodFor(now, plan.Interval)

	sub := &models.AthleteSubscription{
		AthleteID:          athlete.ID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionStatusActive,
		StartDate:          periodStart,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
		AutoRenew:          plan.Interval != models.BillingIntervalOnce,
		CouponID:           couponID,
		UpdatedBy:          actor,
	}

	if err := s.subRepo.Create(tx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	next := billing.NextBillingDate(now, plan.Interval)
	if err := s.athleteRepo.UpdateNextBillingDate(tx, athlete.ID, next); err != nil {
		return nil, apperrors.InternalError(err)
	}
	athlete.NextBillingDate = next

	sub.Plan = *plan
	return sub, nil
}

func (s *SubscriptionServiceImpl) ExpireLapsed(db *gorm.DB, now time.Time) (int, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return 0, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	lapsed, err := s.subRepo.FindExpiredActive(tx, now)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	for i := range lapsed {
		sub := &lapsed[i]
		sub.Status = models.SubscriptionStatusExpired
		sub.EndDate = &sub.CurrentPeriodEnd
		if err := s.subRepo.Update(tx, sub); err != nil {
			return 0, apperrors.InternalError(err)
		}
		if err := s.athleteRepo.UpdateNextBillingDate(tx, sub.AthleteID, nil); err != nil {
			return 0, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, apperrors.InternalError(err)
	}
	return len(lapsed), nil
}

func (s *SubscriptionServiceImpl) loadAthleteAndPlan(tx *gorm.DB, athleteID, planID string) (*models.Athlete, *models.SubscriptionPlan, error) {
	athlete, err := s.athleteRepo.FindByID(tx, athleteID)
	if err != nil {
		return nil, nil, handleAthleteError(err)
	}

	plan, err := s.planRepo.FindByID(tx, planID)
	if err != nil {
		return nil, nil, handlePlanError(err)
	}
	if plan.Archived {
		return nil, nil, apperrors.ErrPlanArchived
	}
	if !plan.IsActive {
		return nil, nil, apperrors.ErrInvalidStatus("plan", "Subscription plan is not active")
	}

	return athlete, plan, nil
}

func handleSubscriptionError(err error) error {
	if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
		return apperrors.ErrNotFound(err, "Subscription")
	}
	return apperrors.InternalError(err)
}

func handleAthleteError(err error) error {
	if apperrors.Is(err, repositories.ErrAthleteNotFound) {
		return apperrors.ErrNotFound(err, "Athlete")
	}
	return apperrors.InternalError(err)
}
