package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus defines the lifecycle status of an inventory asset
type AssetStatus string

const (
	AssetStatusInUse     AssetStatus = "in_use"
	AssetStatusInStorage AssetStatus = "in_storage"
	AssetStatusRepair    AssetStatus = "repair"
	AssetStatusRetired   AssetStatus = "retired"
)

// Asset represents a device or other tracked piece of equipment
type Asset struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Category      string           `json:"category" db:"category"`
	SerialNumber  string           `json:"serial_number" db:"serial_number"`
	Status        AssetStatus      `json:"status" db:"status"`
	AssignedTo    *int             `json:"assigned_to,omitempty" db:"assigned_to"`
	PurchaseDate  *time.Time       `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty" db:"purchase_price"`
	Notes         string           `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// AssetRequest represents an asset create/update request
type AssetRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	SerialNumber  string `json:"serial_number"`
	Status        string `json:"status,omitempty"`
	AssignedTo    *int   `json:"assigned_to,omitempty"`
	PurchaseDate  string `json:"purchase_date,omitempty"`
	PurchasePrice string `json:"purchase_price,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ValidateAssetRequest validates asset request data
func (a *AssetRequest) ValidateAssetRequest() error {
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.SerialNumber == "" {
		return errors.New("serial number is required")
	}

	if a.Status != "" && !ValidAssetStatus(AssetStatus(a.Status)) {
		return errors.New("status must be in_use, in_storage, repair or retired")
	}

	if a.PurchaseDate != "" {
		if _, err := time.Parse("2006-01-02", a.PurchaseDate); err != nil {
			return errors.New("purchase date must use the yyyy-mm-dd format")
		}
	}

	if a.PurchasePrice != "" {
		price, err := decimal.NewFromString(a.PurchasePrice)
		if err != nil {
			return errors.New("purchase price must be a decimal number")
		}
		if price.IsNegative() {
			return errors.New("purchase price cannot be negative")
		}
	}

	return nil
}

// ToAsset converts AssetRequest to Asset
func (a *AssetRequest) ToAsset() *Asset {
	asset := &Asset{
		Name:         a.Name,
		Category:     a.Category,
		SerialNumber: a.SerialNumber,
		Status:       AssetStatusInStorage,
		AssignedTo:   a.AssignedTo,
		Notes:        a.Notes,
	}

	if a.Status != "" {
		asset.Status = AssetStatus(a.Status)
	}
	if d, err := time.Parse("2006-01-02", a.PurchaseDate); err == nil && a.PurchaseDate != "" {
		asset.PurchaseDate = &d
	}
	if a.PurchasePrice != "" {
		if price, err := decimal.NewFromString(a.PurchasePrice); err == nil {
			asset.PurchasePrice = &price
		}
	}

	return asset
}

// ValidAssetStatus reports whether a status value is known
func ValidAssetStatus(status AssetStatus) bool {
	switch status {
	case AssetStatusInUse, AssetStatusInStorage, AssetStatusRepair, AssetStatusRetired:
		return true
	}
	return false
}
