package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// Audit actions recorded by the services.
const (
	ActionShopRegister        = "SHOP_REGISTER"
	ActionShopUpdate          = "SHOP_UPDATE"
	ActionTrialActivate       = "TRIAL_ACTIVATE"
	ActionOilChangeCreate     = "OIL_CHANGE_CREATE"
	ActionOilChangeUpdate     = "OIL_CHANGE_UPDATE"
	ActionOilChangeDelete     = "OIL_CHANGE_DELETE"
	ActionEmployeeCreate      = "EMPLOYEE_CREATE"
	ActionEmployeeUpdate      = "EMPLOYEE_UPDATE"
	ActionEmployeeDelete      = "EMPLOYEE_DELETE"
	ActionEmployeeSelfSignup  = "EMPLOYEE_SELF_REGISTER"
	ActionSubscriptionRequest = "SUBSCRIPTION_REQUEST"
	ActionEntitlementExpire   = "ENTITLEMENT_EXPIRE"
)

// AuditService writes the shop activity trail.
type AuditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{auditRepo: auditRepo, logger: logger}
}

// CreateAuditLog stores an entry and reports storage failures.
func (s *AuditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s == nil || s.auditRepo == nil {
		return fmt.Errorf("AuditRepository not initialized in AuditService")
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// Record stores an entry on a best-effort basis: failures are logged and never
// surface to the operation being audited.
func (s *AuditService) Record(ctx context.Context, actor Actor, shopID, action, targetType, targetID string, details map[string]interface{}) {
	if s == nil {
		return
	}
	entry := models.AuditLog{
		UserID:     actor.UserID,
		ShopID:     shopID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details:    details,
	}
	if err := s.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Audit log write failed",
			zap.String("action", action),
			zap.String("shop_id", shopID),
			zap.Error(err),
		)
	}
}
