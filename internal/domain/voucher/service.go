// internal/domain/voucher/service.go
package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrVoucherNotFound is returned when no voucher matches the code
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrVoucherNotActive is returned when the voucher is used or expired
	ErrVoucherNotActive = errors.New("voucher is not active")

	// ErrMinOrderNotMet is returned when the cart subtotal is below the
	// voucher's minimum order amount
	ErrMinOrderNotMet = errors.New("order subtotal below voucher minimum")
)

// Service handles voucher business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new voucher service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithTx returns a copy of the service bound to a transaction
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx}
}

// VoucherView is a voucher with its computed state for display
type VoucherView struct {
	Voucher
	ComputedStatus VoucherStatus `json:"computed_status"`
	DaysLeft       int           `json:"days_left"`
}

// List returns vouchers grouped under a status tab. An empty tab
// returns everything.
func (s *Service) List(ctx context.Context, tab VoucherStatus) ([]VoucherView, error) {
	var vouchers []Voucher
	err := s.db.WithContext(ctx).Order("expiry_date ASC").Find(&vouchers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	now := time.Now().UTC()
	views := make([]VoucherView, 0, len(vouchers))
	for _, v := range vouchers {
		computed := v.ComputedStatus(now)
		if tab != "" && computed != tab {
			continue
		}
		views = append(views, VoucherView{
			Voucher:        v,
			ComputedStatus: computed,
			DaysLeft:       v.DaysLeft(now),
		})
	}
	return views, nil
}

// GetByCode returns a voucher by its code, case-insensitive
func (s *Service) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	var v Voucher
	err := s.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("failed to retrieve voucher: %w", err)
	}
	return &v, nil
}

// Discount resolves an offer code to a non-positive discount amount in
// cents for the given subtotal. Percent vouchers are capped by their
// max discount when one is set.
func (s *Service) Discount(ctx context.Context, code string, subtotal int64) (int64, error) {
	v, err := s.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}

	if v.ComputedStatus(time.Now().UTC()) != VoucherStatusActive {
		return 0, ErrVoucherNotActive
	}
	if subtotal < v.MinOrder {
		return 0, ErrMinOrderNotMet
	}

	var discount int64
	switch v.DiscountType {
	case DiscountTypePercent:
		discount = subtotal * v.Value / 100
		if v.MaxDiscount > 0 && discount > v.MaxDiscount {
			discount = v.MaxDiscount
		}
	case DiscountTypeAmount:
		discount = v.Value
	default:
		return 0, fmt.Errorf("unknown discount type %q", v.DiscountType)
	}

	if discount > subtotal {
		discount = subtotal
	}
	return -discount, nil
}

// MarkUsed flags a voucher as consumed
func (s *Service) MarkUsed(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Model(&Voucher{}).
		Where("UPPER(code) = ? AND status = ?", strings.ToUpper(code), VoucherStatusActive).
		Update("status", VoucherStatusUsed)
	if result.Error != nil {
		return fmt.Errorf("failed to mark voucher used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVoucherNotActive
	}
	return nil
}
