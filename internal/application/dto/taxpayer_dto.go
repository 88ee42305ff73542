package dto

import (
	"github.com/shopspring/decimal"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
)

// VehicleDTO vehículo en requests y respuestas (frontera snake_case↔camelCase).
type VehicleDTO struct {
	Plate                string `json:"plate"`
	Brand                string `json:"brand,omitempty"`
	Model                string `json:"model,omitempty"`
	Year                 int    `json:"year,omitempty"`
	Color                string `json:"color,omitempty"`
	MotorSerial          string `json:"motor_serial,omitempty"`
	ChassisSerial        string `json:"chassis_serial,omitempty"`
	HasTransferDocuments bool   `json:"has_transfer_documents"`
}

// TaxpayerRequest body para POST/PUT /api/contribuyentes. El mismo shape se
// usa como payload propuesto en solicitudes UPDATE_TAXPAYER.
type TaxpayerRequest struct {
	Type                  string          `json:"type"`
	Status                string          `json:"status,omitempty"`
	DocID                 string          `json:"doc_id"`
	Name                  string          `json:"name"`
	Address               string          `json:"address,omitempty"`
	Phone                 string          `json:"phone,omitempty"`
	Email                 string          `json:"email,omitempty"`
	HasCommercialActivity bool            `json:"has_commercial_activity"`
	CommercialCategory    string          `json:"commercial_category,omitempty"`
	CommercialName        string          `json:"commercial_name,omitempty"`
	HasConstruction       bool            `json:"has_construction"`
	HasGarbageService     bool            `json:"has_garbage_service"`
	Vehicles              []VehicleDTO    `json:"vehicles,omitempty"`
	Balance               decimal.Decimal `json:"balance"`
}

// TaxpayerResponse contribuyente en respuestas.
type TaxpayerResponse struct {
	ID                    string          `json:"id"`
	TaxpayerNumber        int             `json:"taxpayer_number"`
	Type                  string          `json:"type"`
	Status                string          `json:"status"`
	DocID                 string          `json:"doc_id"`
	Name                  string          `json:"name"`
	Address               string          `json:"address,omitempty"`
	Phone                 string          `json:"phone,omitempty"`
	Email                 string          `json:"email,omitempty"`
	HasCommercialActivity bool            `json:"has_commercial_activity"`
	CommercialCategory    string          `json:"commercial_category"`
	CommercialName        string          `json:"commercial_name,omitempty"`
	HasConstruction       bool            `json:"has_construction"`
	HasGarbageService     bool            `json:"has_garbage_service"`
	Vehicles              []VehicleDTO    `json:"vehicles,omitempty"`
	Balance               decimal.Decimal `json:"balance"`
	CreatedAt             string          `json:"created_at"`
}

// ToVehicles convierte los DTOs al modelo de dominio.
func ToVehicles(in []VehicleDTO) []entity.VehicleInfo {
	out := make([]entity.VehicleInfo, 0, len(in))
	for _, v := range in {
		out = append(out, entity.VehicleInfo{
			Plate:                v.Plate,
			Brand:                v.Brand,
			Model:                v.Model,
			Year:                 v.Year,
			Color:                v.Color,
			MotorSerial:          v.MotorSerial,
			ChassisSerial:        v.ChassisSerial,
			HasTransferDocuments: v.HasTransferDocuments,
		})
	}
	return out
}

// FromVehicles convierte el modelo de dominio a DTOs.
func FromVehicles(in []entity.VehicleInfo) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(in))
	for _, v := range in {
		out = append(out, VehicleDTO{
			Plate:                v.Plate,
			Brand:                v.Brand,
			Model:                v.Model,
			Year:                 v.Year,
			Color:                v.Color,
			MotorSerial:          v.MotorSerial,
			ChassisSerial:        v.ChassisSerial,
			HasTransferDocuments: v.HasTransferDocuments,
		})
	}
	return out
}

// FromTaxpayer arma la respuesta desde la entidad.
func FromTaxpayer(tp *entity.Taxpayer) *TaxpayerResponse {
	return &TaxpayerResponse{
		ID:                    tp.ID,
		TaxpayerNumber:        tp.TaxpayerNumber,
		Type:                  string(tp.Type),
		Status:                string(tp.Status),
		DocID:                 tp.DocID,
		Name:                  tp.Name,
		Address:               tp.Address,
		Phone:                 tp.Phone,
		Email:                 tp.Email,
		HasCommercialActivity: tp.HasCommercialActivity,
		CommercialCategory:    string(tp.CommercialCategory),
		CommercialName:        tp.CommercialName,
		HasConstruction:       tp.HasConstruction,
		HasGarbageService:     tp.HasGarbageService,
		Vehicles:              FromVehicles(tp.Vehicles),
		Balance:               tp.Balance,
		CreatedAt:             tp.CreatedAt.Format("2006-01-02"),
	}
}
