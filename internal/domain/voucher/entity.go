// internal/domain/voucher/entity.go
package voucher

import (
	"time"

	"gorm.io/gorm"
)

// DiscountType represents how a voucher value is applied
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeAmount  DiscountType = "amount"
)

// VoucherStatus represents the lifecycle state of a voucher
type VoucherStatus string

const (
	VoucherStatusActive  VoucherStatus = "active"
	VoucherStatusUsed    VoucherStatus = "used"
	VoucherStatusExpired VoucherStatus = "expired"
)

// Voucher represents a promotional offer code
type Voucher struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"not null;size:255" json:"title"`
	Code         string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Description  string         `gorm:"type:text" json:"description"`
	DiscountType DiscountType   `gorm:"not null;size:20" json:"discount_type"`
	Value        int64          `gorm:"not null" json:"value"` // percent points or cents
	MinOrder     int64          `gorm:"default:0" json:"min_order"`
	MaxDiscount  int64          `gorm:"default:0" json:"max_discount"` // percent cap, 0 = uncapped
	ExpiryDate   time.Time      `gorm:"not null" json:"expiry_date"`
	Status       VoucherStatus  `gorm:"not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Voucher) TableName() string {
	return "vouchers"
}

// ComputedStatus derives the effective status at a point in time. A
// stored non-active status wins; otherwise the voucher is expired once
// its expiry date falls before the start of the current day.
func (v *Voucher) ComputedStatus(now time.Time) VoucherStatus {
	if v.Status != VoucherStatusActive {
		return v.Status
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if v.ExpiryDate.Before(startOfDay) {
		return VoucherStatusExpired
	}
	return VoucherStatusActive
}

// DaysLeft returns whole days until expiry, never negative
func (v *Voucher) DaysLeft(now time.Time) int {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if v.ExpiryDate.Before(startOfDay) {
		return 0
	}
	return int(v.ExpiryDate.Sub(startOfDay).Hours() / 24)
}
