package models

import "time"

// ShopProfile is one lubricentro. The document ID is the owner's Firebase Auth UID.
type ShopProfile struct {
	ID          string    `json:"id" firestore:"-"`
	FantasyName string    `json:"fantasyName" firestore:"fantasyName"`
	Responsible string    `json:"responsible" firestore:"responsible"`
	CUIT        string    `json:"cuit" firestore:"cuit"` // Tax id; immutable after registration
	Address     string    `json:"address,omitempty" firestore:"address,omitempty"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Email       string    `json:"email,omitempty" firestore:"email,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty" firestore:"logoUrl,omitempty"`
	TrialUsed   bool      `json:"trialUsed" firestore:"trialUsed"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Roles a caller can hold inside a shop.
const (
	RoleOwner    = "owner"
	RoleEmployee = "employee"
)

// Access is the resolved identity of an authenticated caller.
type Access struct {
	UserID      string `json:"userId"`
	ShopID      string `json:"shopId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	EmployeeID  string `json:"employeeId,omitempty"`
}

// IsOwner reports whether the caller owns the shop.
func (a Access) IsOwner() bool { return a.Role == RoleOwner }
