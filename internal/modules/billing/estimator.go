package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/money"
)

// PriceBook is the current catalog price of products keyed by name.
type PriceBook map[string]decimal.Decimal

func (p PriceBook) lookup(name string) money.PriceLookup {
	return func() (decimal.Decimal, bool) {
		v, ok := p[name]
		return v, ok
	}
}

type ServiceLine struct {
	ItemID        int64           `json:"item_id"`
	Role          domain.ItemRole `json:"role"`
	ServiceTypeID int64           `json:"service_type_id"`
	Name          string          `json:"name"`
	PerDay        bool            `json:"per_day"`
	Days          int             `json:"days"`
	PetFactor     int             `json:"pet_factor"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Net           decimal.Decimal `json:"net"`
}

type UsageKind string

const (
	KindProduct UsageKind = "product"
	KindMix     UsageKind = "mix"
)

type UsageLine struct {
	Kind         UsageKind       `json:"kind"`
	ID           int64           `json:"id"`
	BookingPetID int64           `json:"booking_pet_id"`
	Scope        string          `json:"scope"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Net          decimal.Decimal `json:"net"`
}

// Estimate is the price breakdown of one booking. TotalDaily and BaseService
// are the pre-discount primary-item figures older screens read.
type Estimate struct {
	BookingID         int64           `json:"booking_id"`
	Services          []ServiceLine   `json:"services"`
	Usages            []UsageLine     `json:"usages"`
	ServiceSubtotal   decimal.Decimal `json:"service_subtotal"`
	TotalProducts     decimal.Decimal `json:"total_products"`
	TotalDailyCharges decimal.Decimal `json:"total_daily_charges"`
	Total             decimal.Decimal `json:"total"`
	DepositSum        decimal.Decimal `json:"deposit_sum"`
	AmountDue         decimal.Decimal `json:"amount_due"`
	TotalDaily        decimal.Decimal `json:"total_daily"`
	BaseService       decimal.Decimal `json:"base_service"`
}

// Days counts calendar days between start and end, ignoring time of day.
// Missing dates count as zero days.
func Days(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	loc := start.Location()
	s := calendarDate(*start, loc)
	e := calendarDate(end.In(loc), loc)
	days := int(e.Sub(s).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// calendarDate maps t's local date to UTC midnight so DST never skews a difference.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Compute prices a fully loaded booking (see BookingRepository.Load). It
// never writes. The booking must carry its PRIMARY item.
func Compute(b *domain.Booking, prices PriceBook) (*Estimate, error) {
	primary := b.PrimaryItem()
	if primary == nil {
		return nil, apperr.InvalidState("booking %d has no primary item", b.ID)
	}

	est := &Estimate{
		BookingID:         b.ID,
		Services:          make([]ServiceLine, 0, len(b.Items)),
		Usages:            make([]UsageLine, 0),
		ServiceSubtotal:   decimal.Zero,
		TotalProducts:     decimal.Zero,
		TotalDailyCharges: decimal.Zero,
		DepositSum:        decimal.Zero,
		TotalDaily:        decimal.Zero,
		BaseService:       decimal.Zero,
	}

	for _, item := range b.Items {
		line := serviceLine(b, item)
		est.Services = append(est.Services, line)
		est.ServiceSubtotal = est.ServiceSubtotal.Add(line.Net)

		if item.ID == primary.ID {
			if line.PerDay {
				est.TotalDaily = line.Subtotal
			} else {
				est.BaseService = line.Subtotal
			}
		}
	}

	for _, bp := range b.Pets {
		for _, ex := range bp.Examinations {
			for _, pu := range ex.ProductUsages {
				est.addUsage(productLine(bp.ID, "examination", pu, prices))
			}
		}
		for _, v := range bp.Visits {
			for _, pu := range v.ProductUsages {
				est.addUsage(productLine(bp.ID, "visit", pu, prices))
			}
			for _, mu := range v.MixUsages {
				est.addUsage(mixLine(bp.ID, "visit", mu))
			}
		}
		for _, pu := range bp.ProductUsages {
			est.addUsage(productLine(bp.ID, "standalone", pu, prices))
		}
		for _, mu := range bp.MixUsages {
			if mu.VisitID != nil {
				continue
			}
			scope := "standalone"
			if mu.ExaminationID != nil {
				scope = "examination"
			}
			est.addUsage(mixLine(bp.ID, scope, mu))
		}
		for _, dc := range bp.DailyCharges {
			est.TotalDailyCharges = est.TotalDailyCharges.Add(dc.Amount)
		}
	}

	for _, d := range b.Deposits {
		est.DepositSum = est.DepositSum.Add(d.Amount)
	}

	est.Total = est.ServiceSubtotal.Add(est.TotalProducts).Add(est.TotalDailyCharges)
	est.AmountDue = est.Total.Sub(est.DepositSum)
	return est, nil
}

func (e *Estimate) addUsage(line UsageLine) {
	e.Usages = append(e.Usages, line)
	e.TotalProducts = e.TotalProducts.Add(line.Net)
}

func serviceLine(b *domain.Booking, item domain.BookingItem) ServiceLine {
	st := domain.ServiceType{}
	if item.ServiceType != nil {
		st = *item.ServiceType
	}
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	unit := money.ResolvePrice(item.UnitPrice, func() (decimal.Decimal, bool) {
		return st.UnitPrice(), true
	})

	line := ServiceLine{
		ItemID:        item.ID,
		Role:          item.Role,
		ServiceTypeID: item.ServiceTypeID,
		Name:          st.Name,
		PerDay:        st.IsPerDay(),
		PetFactor:     1,
		Quantity:      qty,
		UnitPrice:     unit,
	}

	primary := item.Role == domain.ItemPrimary
	if line.PerDay {
		start, end := item.StartDate, item.EndDate
		if start == nil {
			start = b.StartDate
		}
		if end == nil {
			end = b.EndDate
		}
		line.Days = Days(start, end)
		if primary && len(b.Pets) > 0 {
			line.PetFactor = len(b.Pets)
		}
		line.Subtotal = unit.Mul(decimal.NewFromInt(int64(line.Days * line.PetFactor * qty)))
	} else {
		if primary {
			line.PetFactor = examinedPets(b)
		}
		line.Subtotal = unit.Mul(decimal.NewFromInt(int64(line.PetFactor * qty)))
	}

	line.Discount = money.Discount(line.Subtotal, item.DiscountPercent, item.DiscountAmount)
	line.Net = money.Net(line.Subtotal, item.DiscountPercent, item.DiscountAmount)
	return line
}

// examinedPets counts pets with at least one examination; flat services bill
// per examined pet.
func examinedPets(b *domain.Booking) int {
	n := 0
	for _, bp := range b.Pets {
		if len(bp.Examinations) > 0 {
			n++
		}
	}
	return n
}

func productLine(bookingPetID int64, scope string, pu domain.ProductUsage, prices PriceBook) UsageLine {
	unit := money.ResolvePrice(pu.UnitPrice, prices.lookup(pu.ProductName))
	subtotal := pu.Quantity.Mul(unit)
	return UsageLine{
		Kind:         KindProduct,
		ID:           pu.ID,
		BookingPetID: bookingPetID,
		Scope:        scope,
		Name:         pu.ProductName,
		Quantity:     pu.Quantity,
		UnitPrice:    unit,
		Subtotal:     subtotal,
		Discount:     money.Discount(subtotal, pu.DiscountPercent, pu.DiscountAmount),
		Net:          money.Net(subtotal, pu.DiscountPercent, pu.DiscountAmount),
	}
}

func mixLine(bookingPetID int64, scope string, mu domain.MixUsage) UsageLine {
	name := ""
	unit := money.ResolvePrice(mu.UnitPrice, func() (decimal.Decimal, bool) {
		if mu.MixProduct == nil {
			return decimal.Zero, false
		}
		return mu.MixProduct.Price, true
	})
	if mu.MixProduct != nil {
		name = mu.MixProduct.Name
	}
	subtotal := mu.Quantity.Mul(unit)
	return UsageLine{
		Kind:         KindMix,
		ID:           mu.ID,
		BookingPetID: bookingPetID,
		Scope:        scope,
		Name:         name,
		Quantity:     mu.Quantity,
		UnitPrice:    unit,
		Subtotal:     subtotal,
		Discount:     money.Discount(subtotal, mu.DiscountPercent, mu.DiscountAmount),
		Net:          money.Net(subtotal, mu.DiscountPercent, mu.DiscountAmount),
	}
}
