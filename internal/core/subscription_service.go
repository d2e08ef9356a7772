package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// PlanCatalog lists the plans and add-on packages a shop can request.
type PlanCatalog struct {
	plans []models.Plan
}

// NewPlanCatalog returns the standard catalog.
func NewPlanCatalog() *PlanCatalog {
	return &PlanCatalog{plans: []models.Plan{
		{ID: "basica", Name: "Plan Básico", DurationDays: 30, Changes: 50},
		{ID: "premium", Name: "Plan Premium", DurationDays: 30, Changes: 0},
		{ID: "paquete50", Name: "Paquete 50 cambios", Changes: 50, AddOn: true},
		{ID: "paquete100", Name: "Paquete 100 cambios", Changes: 100, AddOn: true},
	}}
}

// List returns a copy of every plan.
func (c *PlanCatalog) List() []models.Plan {
	return append([]models.Plan(nil), c.plans...)
}

// Get returns the plan with the given ID.
func (c *PlanCatalog) Get(planID string) (models.Plan, error) {
	for _, p := range c.plans {
		if p.ID == planID {
			return p, nil
		}
	}
	return models.Plan{}, fmt.Errorf("%w: '%s'", ErrPlanNotFound, planID)
}

// SubscriptionService queues upgrade requests for the administrator and notifies them by mail.
type SubscriptionService struct {
	repo       db.SubscriptionRequestRepository
	shops      db.ShopRepository
	catalog    *PlanCatalog
	mailer     Mailer
	adminEmail string
	audit      *AuditService
	logger     *zap.Logger
	now        Clock
	pending    sync.WaitGroup
}

// notifyTimeout bounds one admin notification, independent of the request that triggered it.
const notifyTimeout = 30 * time.Second

// NewSubscriptionService creates a new SubscriptionService. mailer may be nil,
// in which case requests are stored without notification.
func NewSubscriptionService(
	repo db.SubscriptionRequestRepository,
	shops db.ShopRepository,
	catalog *PlanCatalog,
	mailer Mailer,
	adminEmail string,
	audit *AuditService,
	logger *zap.Logger,
	opts ...Option,
) *SubscriptionService {
	o := applyOptions(opts)
	return &SubscriptionService{
		repo:       repo,
		shops:      shops,
		catalog:    catalog,
		mailer:     mailer,
		adminEmail: adminEmail,
		audit:      audit,
		logger:     logger,
		now:        o.now,
	}
}

// Plans returns the catalog.
func (s *SubscriptionService) Plans() []models.Plan { return s.catalog.List() }

// Request stores a pending request for the given plan.
func (s *SubscriptionService) Request(ctx context.Context, shopID string, actor Actor, req models.CreateSubscriptionRequest) (*models.SubscriptionRequest, error) {
	req.PlanID = strings.TrimSpace(req.PlanID)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	plan, err := s.catalog.Get(req.PlanID)
	if err != nil {
		return nil, err
	}

	sr := &models.SubscriptionRequest{
		ShopID:    shopID,
		PlanID:    plan.ID,
		AddOn:     plan.AddOn,
		Status:    models.RequestPending,
		CreatedAt: s.now(),
	}
	if _, err := s.repo.Create(ctx, sr); err != nil {
		return nil, storageErr("create subscription request", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionSubscriptionRequest, "SUBSCRIPTION_REQUEST", sr.ID, map[string]interface{}{"planId": plan.ID})
	s.notifyAdmin(ctx, sr, plan)
	return sr, nil
}

// notifyAdmin mails the administrator in the background. The message is
// built with the request context; delivery runs on a detached context bounded
// by notifyTimeout. Failures are logged only.
func (s *SubscriptionService) notifyAdmin(ctx context.Context, sr *models.SubscriptionRequest, plan models.Plan) {
	if s.mailer == nil || s.adminEmail == "" {
		return
	}
	shopName := sr.ShopID
	if shop, err := s.shops.GetByID(ctx, sr.ShopID); err == nil {
		shopName = fmt.Sprintf("%s (CUIT %s)", shop.FantasyName, shop.CUIT)
	}
	subject := fmt.Sprintf("Nueva solicitud de suscripción: %s", plan.Name)
	body := fmt.Sprintf("Lubricentro: %s\nPlan solicitado: %s (%s)\nPaquete adicional: %t\nSolicitud: %s\nFecha: %s\n",
		shopName, plan.Name, plan.ID, plan.AddOn, sr.ID, sr.CreatedAt.Format("2006-01-02 15:04"))

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.mailer.Send(sendCtx, []string{s.adminEmail}, subject, body); err != nil {
			s.logger.Warn("Subscription request notification failed",
				zap.String("request_id", sr.ID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("Subscription request notification sent", zap.String("request_id", sr.ID))
	}()
}

// Wait blocks until every queued admin notification has finished.
func (s *SubscriptionService) Wait() {
	s.pending.Wait()
}

// List returns the shop's requests, newest first.
func (s *SubscriptionService) List(ctx context.Context, shopID string) ([]*models.SubscriptionRequest, error) {
	requests, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, storageErr("list subscription requests", err)
	}
	return requests, nil
}
