package models

import (
	"math"
	"time"
)

// TrialPlanID is the plan identifier of the one-time starter grant.
const TrialPlanID = "trial"

// Entitlement is one grant of usage rights for a shop: the primary
// subscription, the trial, or a supplementary add-on package.
//
// TotalChangesAllowed == 0 means unlimited; AvailableChanges is then ignored.
// Otherwise AvailableChanges == max(TotalChangesAllowed-ChangesUsed, 0).
type Entitlement struct {
	ID                  string    `json:"id" firestore:"-"`
	ShopID              string    `json:"shopId" firestore:"shopId"`
	PlanID              string    `json:"planId" firestore:"planId"`
	StartDate           time.Time `json:"startDate" firestore:"startDate"`
	EndDate             time.Time `json:"endDate" firestore:"endDate"`
	Active              bool      `json:"active" firestore:"active"`
	TotalChangesAllowed int       `json:"totalChangesAllowed" firestore:"totalChangesAllowed"`
	ChangesUsed         int       `json:"changesUsed" firestore:"changesUsed"`
	AvailableChanges    int       `json:"availableChanges" firestore:"availableChanges"`
	Trial               bool      `json:"trial" firestore:"trial"`
	AddOn               bool      `json:"addOn" firestore:"addOn"`
	CreatedAt           time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Unlimited reports whether the grant has no change cap.
func (e *Entitlement) Unlimited() bool { return e.TotalChangesAllowed == 0 }

// Expired reports whether the validity window has closed at now.
func (e *Entitlement) Expired(now time.Time) bool { return !now.Before(e.EndDate) }

// HasCapacity reports whether at least one more change may be consumed.
func (e *Entitlement) HasCapacity() bool { return e.Unlimited() || e.AvailableChanges > 0 }

// Usable reports whether the grant currently permits a change.
func (e *Entitlement) Usable(now time.Time) bool {
	return e.Active && !e.Expired(now) && e.HasCapacity()
}

// RemainingDays is the number of started days left in the window, never negative.
func (e *Entitlement) RemainingDays(now time.Time) int {
	if e.Expired(now) {
		return 0
	}
	return int(math.Ceil(e.EndDate.Sub(now).Hours() / 24))
}

// Recompute restores the available/used invariant.
func (e *Entitlement) Recompute() {
	if e.ChangesUsed < 0 {
		e.ChangesUsed = 0
	}
	if e.Unlimited() {
		e.AvailableChanges = 0
		return
	}
	e.AvailableChanges = max(e.TotalChangesAllowed-e.ChangesUsed, 0)
}

// ApplyConsumption records one used change.
func (e *Entitlement) ApplyConsumption(at time.Time) {
	e.ChangesUsed++
	e.Recompute()
	e.UpdatedAt = at
}

// ApplyRestore gives back one previously consumed change.
func (e *Entitlement) ApplyRestore(at time.Time) {
	if e.ChangesUsed > 0 {
		e.ChangesUsed--
	}
	e.Recompute()
	e.UpdatedAt = at
}
