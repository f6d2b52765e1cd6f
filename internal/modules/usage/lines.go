package usage

import (
	"context"

	"github.com/shopspring/decimal"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/money"
	"petcare/internal/repository"
)

// ProductLineRequest is one consumed product as it arrives over HTTP.
type ProductLineRequest struct {
	ProductID   *int64  `json:"product_id" validate:"omitempty,gt=0"`
	ProductName string  `json:"product_name" validate:"max=160"`
	Quantity    string  `json:"quantity" validate:"required"`
	UnitPrice   *string `json:"unit_price"`
}

type ComponentRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  string `json:"quantity" validate:"required"`
}

type QuickMixRequest struct {
	Label      string             `json:"label" validate:"max=120"`
	Price      *string            `json:"price"`
	Components []ComponentRequest `json:"components" validate:"required,min=1,dive"`
}

// TemplateMixRequest consumes Quantity units of a stored mix recipe.
type TemplateMixRequest struct {
	MixProductID int64   `json:"mix_product_id" validate:"required,gt=0"`
	Quantity     string  `json:"quantity" validate:"required"`
	UnitPrice    *string `json:"unit_price"`
}

// ParseProductLines turns request lines into engine input, rejecting
// malformed or non-positive quantities before anything is written.
func ParseProductLines(reqs []ProductLineRequest) ([]ProductLine, error) {
	lines := make([]ProductLine, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == nil && r.ProductName == "" {
			return nil, apperr.Validation("product_id or product_name is required")
		}
		qty, err := money.ParsePositive("quantity", r.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := nonNegative("unit_price", r.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ProductLine{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}
	return lines, nil
}

// ParseQuickMix converts a quick mix request. The parent ids are filled in
// by the caller.
func ParseQuickMix(r QuickMixRequest) (QuickMix, error) {
	price, err := nonNegative("price", r.Price)
	if err != nil {
		return QuickMix{}, err
	}
	mix := QuickMix{Label: r.Label, Price: price}
	for _, c := range r.Components {
		qty, err := money.ParsePositive("quantity", c.Quantity)
		if err != nil {
			return QuickMix{}, err
		}
		mix.Components = append(mix.Components, ComponentLine{ProductID: c.ProductID, Quantity: qty})
	}
	if len(mix.Components) == 0 {
		return QuickMix{}, apperr.Validation("quick mix needs at least one component")
	}
	return mix, nil
}

func ParseQuickMixes(reqs []QuickMixRequest) ([]QuickMix, error) {
	mixes := make([]QuickMix, 0, len(reqs))
	for _, r := range reqs {
		m, err := ParseQuickMix(r)
		if err != nil {
			return nil, err
		}
		mixes = append(mixes, m)
	}
	return mixes, nil
}

// ParseTemplateMixes converts template mix requests. BookingPetID and
// VisitID are filled in by the caller.
func ParseTemplateMixes(reqs []TemplateMixRequest) ([]TemplateMix, error) {
	mixes := make([]TemplateMix, 0, len(reqs))
	for _, r := range reqs {
		qty, err := money.ParsePositive("quantity", r.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := nonNegative("unit_price", r.UnitPrice)
		if err != nil {
			return nil, err
		}
		mixes = append(mixes, TemplateMix{MixProductID: r.MixProductID, Quantity: qty, UnitPrice: price})
	}
	return mixes, nil
}

func nonNegative(field string, raw *string) (decimal.NullDecimal, error) {
	d, err := money.ParseOptional(field, raw)
	if err != nil {
		return d, err
	}
	if d.Valid && d.Decimal.IsNegative() {
		return decimal.NullDecimal{}, apperr.Validation("%s must not be negative", field)
	}
	return d, nil
}

// OpenPet loads a booking pet together with its booking and refuses closed
// bookings. Consumption is never recorded after checkout or cancellation.
func OpenPet(ctx context.Context, bookings *repository.BookingRepository, bookingID, bookingPetID int64) (*domain.Booking, *domain.BookingPet, error) {
	b, err := bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	bp, err := bookings.GetPet(ctx, bookingID, bookingPetID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status.IsTerminal() {
		return nil, nil, apperr.InvalidState("booking %d is %s", b.ID, b.Status)
	}
	return b, bp, nil
}

// Plain drops the component usages that belong to a quick mix; those are
// reversed together with their mix.
func Plain(usages []domain.ProductUsage) []domain.ProductUsage {
	out := make([]domain.ProductUsage, 0, len(usages))
	for _, pu := range usages {
		if pu.MixUsageID == nil {
			out = append(out, pu)
		}
	}
	return out
}
