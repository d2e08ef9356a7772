package models

import "time"

// RegisterShopRequest is the body of POST /shops/register.
type RegisterShopRequest struct {
	FantasyName string `json:"fantasyName" validate:"required"`
	Responsible string `json:"responsible" validate:"required"`
	CUIT        string `json:"cuit" validate:"required,min=8"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	LogoURL     string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

// UpdateShopRequest represents a partial profile edit.
// Pointers distinguish "clear the field" from "leave it unchanged".
type UpdateShopRequest struct {
	FantasyName *string `json:"fantasyName,omitempty" validate:"omitempty,min=1"`
	Responsible *string `json:"responsible,omitempty" validate:"omitempty,min=1"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	LogoURL     *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
}

// OilChangeRequest is the form payload for creating or editing an oil change.
// Each oil attribute may come from the catalogue or from its free-text override.
type OilChangeRequest struct {
	VehicleID        string            `json:"vehicleId" validate:"required"`
	ServiceDate      time.Time         `json:"serviceDate" validate:"required"`
	OdometerKm       int               `json:"odometerKm" validate:"gt=0"`
	NextOdometerKm   int               `json:"nextOdometerKm" validate:"gt=0"`
	NextServiceDate  *time.Time        `json:"nextServiceDate,omitempty"`
	OilBrand         string            `json:"oilBrand,omitempty" validate:"required_without=OilBrandCustom"`
	OilBrandCustom   string            `json:"oilBrandCustom,omitempty"`
	Viscosity        string            `json:"viscosity,omitempty" validate:"required_without=ViscosityCustom"`
	ViscosityCustom  string            `json:"viscosityCustom,omitempty"`
	OilType          string            `json:"oilType,omitempty" validate:"required_without=OilTypeCustom"`
	OilTypeCustom    string            `json:"oilTypeCustom,omitempty"`
	Filters          map[string]string `json:"filters,omitempty"`
	Extras           map[string]string `json:"extras,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	TicketNumber     string            `json:"ticketNumber" validate:"required"`
	ContactName      string            `json:"contactName,omitempty"`
	ContactPhone     string            `json:"contactPhone,omitempty"`
	RecurrenceMonths int               `json:"recurrenceMonths,omitempty" validate:"gte=0,lte=24"`
}

// CreateEmployeeRequest is the owner-side employee creation payload.
type CreateEmployeeRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role" validate:"required"`
	AuthUID string `json:"authUid,omitempty"`
	Enabled bool   `json:"enabled"`
}

// UpdateEmployeeRequest represents a partial employee edit.
type UpdateEmployeeRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Role    *string `json:"role,omitempty" validate:"omitempty,min=1"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// EmployeeSelfRegisterRequest links the caller to the shop owning the given CUIT.
type EmployeeSelfRegisterRequest struct {
	CUIT string `json:"cuit" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// CreateSubscriptionRequest asks an administrator to grant a plan or package.
type CreateSubscriptionRequest struct {
	PlanID string `json:"planId" validate:"required"`
}
