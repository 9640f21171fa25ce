package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

// StoreDTO is the store projection exposed to other services and the API.
type StoreDTO struct {
	ID             uuid.UUID       `json:"id"`
	Type           enums.StoreType `json:"type"`
	CompanyName    string          `json:"company_name"`
	TradeLicenseNo *string         `json:"trade_license_no,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Email          *string         `json:"email,omitempty"`
	KYCStatus      enums.KYCStatus `json:"kyc_status"`
	Address        types.Address   `json:"address"`
	Categories     []string        `json:"categories,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToDTO maps a store row to its external projection.
func ToDTO(store *models.Store) *StoreDTO {
	if store == nil {
		return nil
	}
	return &StoreDTO{
		ID:             store.ID,
		Type:           store.Type,
		CompanyName:    store.CompanyName,
		TradeLicenseNo: store.TradeLicenseNo,
		Phone:          store.Phone,
		Email:          store.Email,
		KYCStatus:      store.KYCStatus,
		Address:        store.Address,
		Categories:     store.Categories,
		CreatedAt:      store.CreatedAt,
	}
}

// CreateStoreDTO captures the fields required to register a store.
type CreateStoreDTO struct {
	Type           enums.StoreType
	CompanyName    string
	TradeLicenseNo *string
	Phone          *string
	Email          *string
	Address        types.Address
	Categories     []string
	OwnerID        uuid.UUID
}

// ToModel converts the creation payload into a persistable row. New stores
// always start unverified.
func (dto CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		Type:           dto.Type,
		CompanyName:    dto.CompanyName,
		TradeLicenseNo: dto.TradeLicenseNo,
		Phone:          dto.Phone,
		Email:          dto.Email,
		KYCStatus:      enums.KYCStatusPending,
		Address:        dto.Address,
		Categories:     dto.Categories,
		OwnerID:        dto.OwnerID,
	}
}
