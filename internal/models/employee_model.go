package models

import "time"

// Employee is a shop employee account, stored under lubricentros/{shopId}/employees.
type Employee struct {
	ID        string    `json:"id" firestore:"-"`
	ShopID    string    `json:"shopId" firestore:"shopId"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Role      string    `json:"role" firestore:"role"`
	AuthUID   string    `json:"authUid,omitempty" firestore:"authUid,omitempty"`
	Enabled   bool      `json:"enabled" firestore:"enabled"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
