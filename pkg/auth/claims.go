package auth

import (
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	ActiveStoreID *uuid.UUID
	Role          string
	StoreType     *enums.StoreType
	KYCStatus     *enums.KYCStatus
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID        `json:"user_id"`
	ActiveStoreID *uuid.UUID       `json:"active_store_id,omitempty"`
	Role          string           `json:"role"`
	StoreType     *enums.StoreType `json:"store_type,omitempty"`
	KYCStatus     *enums.KYCStatus `json:"kyc_status,omitempty"`
	jwt.RegisteredClaims
}
