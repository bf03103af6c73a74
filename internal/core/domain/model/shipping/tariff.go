package shipping

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"marketplace/internal/pkg/errs"
)

// DistanceBand maps distances up to and including UpToKm to Fee.
type DistanceBand struct {
	UpToKm float64
	Fee    int64
}

// ValueTier grants Fraction off the base fee for subtotals of at least MinSubtotal.
// Fractions are held to a basis point.
type ValueTier struct {
	MinSubtotal int64
	Fraction    float64
}

// Tariff is immutable after construction.
type Tariff struct {
	bands      []DistanceBand
	beyondFee  int64
	defaultFee int64
	valueTiers []ValueTier
	tierBps    []int64
}

// DefaultTariff is the built-in tariff used when no tariff file is configured.
func DefaultTariff() Tariff {
	t, err := NewTariff(
		[]DistanceBand{
			{UpToKm: 5, Fee: 1500},
			{UpToKm: 10, Fee: 2500},
			{UpToKm: 20, Fee: 3500},
			{UpToKm: 50, Fee: 5000},
			{UpToKm: 100, Fee: 7500},
			{UpToKm: 200, Fee: 10000},
			{UpToKm: 300, Fee: 15000},
		},
		20000,
		3000,
		[]ValueTier{
			{MinSubtotal: 500000, Fraction: 0.5},
			{MinSubtotal: 200000, Fraction: 0.3},
			{MinSubtotal: 100000, Fraction: 0.2},
			{MinSubtotal: 50000, Fraction: 0.1},
			{MinSubtotal: 0, Fraction: 0},
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTariff validates the tables: band limits strictly increasing, fees
// non-decreasing (beyondFee included) and fractions within [0, 1].
// Value tiers may be given in any order.
func NewTariff(bands []DistanceBand, beyondFee, defaultFee int64, valueTiers []ValueTier) (Tariff, error) {
	if err := errors.Join(validateBands(bands, beyondFee), validateFee("default fee", defaultFee)); err != nil {
		return Tariff{}, err
	}

	tiers := make([]ValueTier, len(valueTiers))
	copy(tiers, valueTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinSubtotal > tiers[j].MinSubtotal })
	if err := validateTiers(tiers); err != nil {
		return Tariff{}, err
	}

	b := make([]DistanceBand, len(bands))
	copy(b, bands)

	bps := make([]int64, len(tiers))
	for i, tier := range tiers {
		bps[i] = BasisPoints(tier.Fraction)
	}

	return Tariff{
		bands:      b,
		beyondFee:  beyondFee,
		defaultFee: defaultFee,
		valueTiers: tiers,
		tierBps:    bps,
	}, nil
}

func validateBands(bands []DistanceBand, beyondFee int64) error {
	if len(bands) == 0 {
		return errs.NewValueIsRequiredError("distance bands")
	}

	prevKm, prevFee := 0.0, int64(0)
	for i, b := range bands {
		if math.IsNaN(b.UpToKm) || b.UpToKm <= prevKm {
			return errs.NewValueIsInvalidErrorWithCause("distance bands",
				fmt.Errorf("band %d limit %.2f km is not greater than %.2f km", i, b.UpToKm, prevKm))
		}
		if b.Fee < prevFee {
			return errs.NewValueIsInvalidErrorWithCause("distance bands",
				fmt.Errorf("band %d fee %d is lower than %d", i, b.Fee, prevFee))
		}
		prevKm, prevFee = b.UpToKm, b.Fee
	}

	if beyondFee < prevFee {
		return errs.NewValueIsInvalidErrorWithCause("beyond fee",
			fmt.Errorf("%d is lower than the last band fee %d", beyondFee, prevFee))
	}

	return nil
}

func validateFee(name string, fee int64) error {
	if fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", fee))
	}
	return nil
}

// tiers must already be sorted by descending MinSubtotal.
func validateTiers(tiers []ValueTier) error {
	for i, t := range tiers {
		if math.IsNaN(t.Fraction) || t.Fraction < 0 || t.Fraction > 1 {
			return errs.NewValueIsOutOfRangeError("value tier fraction", t.Fraction, 0, 1)
		}
		if t.MinSubtotal < 0 {
			return errs.NewValueIsInvalidErrorWithCause("value tier",
				fmt.Errorf("minimum subtotal %d is negative", t.MinSubtotal))
		}
		if i > 0 && tiers[i-1].MinSubtotal == t.MinSubtotal {
			return errs.NewValueIsInvalidErrorWithCause("value tier",
				fmt.Errorf("duplicate minimum subtotal %d", t.MinSubtotal))
		}
	}
	return nil
}

// BaseFee returns the band fee for distanceKm, or the default fee when it is nil.
func (t Tariff) BaseFee(distanceKm *float64) int64 {
	if distanceKm == nil {
		return t.defaultFee
	}
	for _, b := range t.bands {
		if *distanceKm <= b.UpToKm {
			return b.Fee
		}
	}
	return t.beyondFee
}

// ValueDiscountBasisPoints returns the discount of the first tier whose minimum
// does not exceed subtotal, or 0.
func (t Tariff) ValueDiscountBasisPoints(subtotal int64) int64 {
	for i, tier := range t.valueTiers {
		if tier.MinSubtotal <= subtotal {
			return t.tierBps[i]
		}
	}
	return 0
}

// BasisPoints converts a fraction in [0, 1] to the nearest basis point.
func BasisPoints(fraction float64) int64 {
	return int64(math.Round(fraction * float64(FullDiscount)))
}

func (t Tariff) Bands() []DistanceBand {
	out := make([]DistanceBand, len(t.bands))
	copy(out, t.bands)
	return out
}

func (t Tariff) BeyondFee() int64 {
	return t.beyondFee
}

func (t Tariff) DefaultFee() int64 {
	return t.defaultFee
}

func (t Tariff) ValueTiers() []ValueTier {
	out := make([]ValueTier, len(t.valueTiers))
	copy(out, t.valueTiers)
	return out
}
