// Package tariffyaml reads a shipping tariff from a YAML file:
//
//	bands:
//	  - {up_to_km: 5, fee: 1500}
//	  - {up_to_km: 10, fee: 2500}
//	beyond_fee: 20000
//	default_fee: 3000
//	value_tiers:
//	  - {min_subtotal: 50000, fraction: 0.1}
package tariffyaml

import (
	"os"

	"marketplace/internal/core/domain/model/shipping"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v4"
)

type file struct {
	Bands []struct {
		UpToKm float64 `yaml:"up_to_km"`
		Fee    int64   `yaml:"fee"`
	} `yaml:"bands"`
	BeyondFee  int64 `yaml:"beyond_fee"`
	DefaultFee int64 `yaml:"default_fee"`
	ValueTiers []struct {
		MinSubtotal int64   `yaml:"min_subtotal"`
		Fraction    float64 `yaml:"fraction"`
	} `yaml:"value_tiers"`
}

// Load reads and validates the tariff at path. An empty path yields the built-in tariff.
func Load(path string) (shipping.Tariff, error) {
	if path == "" {
		return shipping.DefaultTariff(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return shipping.Tariff{}, errors.Wrap(err, "read tariff file")
	}
	return Parse(b)
}

func Parse(b []byte) (shipping.Tariff, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return shipping.Tariff{}, errors.Wrap(err, "parse tariff")
	}

	bands := make([]shipping.DistanceBand, 0, len(f.Bands))
	for _, b := range f.Bands {
		bands = append(bands, shipping.DistanceBand{UpToKm: b.UpToKm, Fee: b.Fee})
	}
	tiers := make([]shipping.ValueTier, 0, len(f.ValueTiers))
	for _, t := range f.ValueTiers {
		tiers = append(tiers, shipping.ValueTier{MinSubtotal: t.MinSubtotal, Fraction: t.Fraction})
	}

	return shipping.NewTariff(bands, f.BeyondFee, f.DefaultFee, tiers)
}
