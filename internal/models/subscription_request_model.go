package models

import "time"

// Subscription request states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// SubscriptionRequest is a shop-initiated upgrade request awaiting an administrator.
type SubscriptionRequest struct {
	ID        string    `json:"id" firestore:"-"`
	ShopID    string    `json:"shopId" firestore:"shopId"`
	PlanID    string    `json:"planId" firestore:"planId"`
	AddOn     bool      `json:"addOn" firestore:"addOn"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Plan describes a purchasable subscription or add-on package.
type Plan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"durationDays,omitempty"` // Zero for add-ons, which inherit the primary window
	Changes      int    `json:"changes"`                // Zero means unlimited
	AddOn        bool   `json:"addOn"`
}
