package models

import "time"

// OilChange is a single service event, stored under lubricentros/{shopId}/oilChanges.
type OilChange struct {
	ID               string            `json:"id" firestore:"-"`
	ShopID           string            `json:"shopId" firestore:"-"` // Inferred from the parent document
	VehicleID        string            `json:"vehicleId" firestore:"vehicleId"`
	ServiceDate      time.Time         `json:"serviceDate" firestore:"serviceDate"`
	OdometerKm       int               `json:"odometerKm" firestore:"odometerKm"`
	NextOdometerKm   int               `json:"nextOdometerKm" firestore:"nextOdometerKm"`
	NextServiceDate  *time.Time        `json:"nextServiceDate,omitempty" firestore:"nextServiceDate,omitempty"`
	OilBrand         string            `json:"oilBrand,omitempty" firestore:"oilBrand,omitempty"`
	OilBrandCustom   string            `json:"oilBrandCustom,omitempty" firestore:"oilBrandCustom,omitempty"`
	Viscosity        string            `json:"viscosity,omitempty" firestore:"viscosity,omitempty"`
	ViscosityCustom  string            `json:"viscosityCustom,omitempty" firestore:"viscosityCustom,omitempty"`
	OilType          string            `json:"oilType,omitempty" firestore:"oilType,omitempty"`
	OilTypeCustom    string            `json:"oilTypeCustom,omitempty" firestore:"oilTypeCustom,omitempty"`
	Filters          map[string]string `json:"filters,omitempty" firestore:"filters,omitempty"` // label -> comment
	Extras           map[string]string `json:"extras,omitempty" firestore:"extras,omitempty"`   // label -> comment
	Notes            string            `json:"notes,omitempty" firestore:"notes,omitempty"`
	TicketNumber     string            `json:"ticketNumber" firestore:"ticketNumber"`
	ContactName      string            `json:"contactName,omitempty" firestore:"contactName,omitempty"`
	ContactPhone     string            `json:"contactPhone,omitempty" firestore:"contactPhone,omitempty"`
	RecurrenceMonths int               `json:"recurrenceMonths,omitempty" firestore:"recurrenceMonths,omitempty"`
	CreatedAt        time.Time         `json:"createdAt" firestore:"createdAt"`
	CreatedBy        string            `json:"createdBy,omitempty" firestore:"createdBy,omitempty"`
	UpdatedAt        time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

// OilLabel returns the oil name as shown to customers, preferring the free-text override.
func (o *OilChange) OilLabel() string {
	if o.OilBrandCustom != "" {
		return o.OilBrandCustom
	}
	return o.OilBrand
}

// ViscosityLabel returns the SAE grade, preferring the free-text override.
func (o *OilChange) ViscosityLabel() string {
	if o.ViscosityCustom != "" {
		return o.ViscosityCustom
	}
	return o.Viscosity
}

// OilTypeLabel returns the oil type, preferring the free-text override.
func (o *OilChange) OilTypeLabel() string {
	if o.OilTypeCustom != "" {
		return o.OilTypeCustom
	}
	return o.OilType
}

// OilChangeCSVRow is the flat export shape of an OilChange.
type OilChangeCSVRow struct {
	TicketNumber    string `csv:"ticket"`
	ServiceDate     string `csv:"fecha"`
	VehicleID       string `csv:"dominio"`
	OdometerKm      int    `csv:"km"`
	NextOdometerKm  int    `csv:"proximo_km"`
	NextServiceDate string `csv:"proxima_fecha"`
	Oil             string `csv:"aceite"`
	Viscosity       string `csv:"sae"`
	OilType         string `csv:"tipo"`
	Filters         string `csv:"filtros"`
	Extras          string `csv:"extras"`
	ContactName     string `csv:"cliente"`
	ContactPhone    string `csv:"telefono"`
	Notes           string `csv:"observaciones"`
	CreatedBy       string `csv:"atendido_por"`
}
