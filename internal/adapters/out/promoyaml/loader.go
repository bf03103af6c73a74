// Package promoyaml reads promo code seeds from a YAML file:
//
//	codes:
//	  - {code: FREESHIP, discount_type: free}
//	  - {code: SAVE15, discount_type: percentage, discount_value: 15, expires_at: "2026-12-31T23:59:59Z"}
//	  - {code: OLD10, discount_type: percentage, discount_value: 10, active: false}
//
// Codes are active unless marked otherwise.
package promoyaml

import (
	"context"
	"os"
	"time"

	"marketplace/internal/core/domain/model/promo"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v4"
)

type file struct {
	Codes []struct {
		Code          string  `yaml:"code"`
		DiscountType  string  `yaml:"discount_type"`
		DiscountValue float64 `yaml:"discount_value"`
		Active        *bool   `yaml:"active"`
		ExpiresAt     string  `yaml:"expires_at"`
	} `yaml:"codes"`
}

// Saver stores a promo code, replacing any code with the same name.
type Saver interface {
	Save(ctx context.Context, code *promo.Code) error
}

// Load reads the seeds at path. An empty path yields no codes.
func Load(path string) ([]*promo.Code, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read promo codes file")
	}
	return Parse(b)
}

func Parse(b []byte) ([]*promo.Code, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "parse promo codes")
	}

	codes := make([]*promo.Code, 0, len(f.Codes))
	for i, c := range f.Codes {
		active := c.Active == nil || *c.Active
		var expiresAt *time.Time
		if c.ExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, c.ExpiresAt)
			if err != nil {
				return nil, errors.Wrapf(err, "promo code %d: expires_at", i)
			}
			expiresAt = &t
		}

		code, err := promo.NewCode(c.Code, promo.DiscountType(c.DiscountType), c.DiscountValue, active, expiresAt)
		if err != nil {
			return nil, errors.Wrapf(err, "promo code %d", i)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Seed saves every code in order and stops at the first failure.
func Seed(ctx context.Context, store Saver, codes []*promo.Code) error {
	for _, c := range codes {
		if err := store.Save(ctx, c); err != nil {
			return errors.Wrapf(err, "seed promo code %s", c.Code())
		}
	}
	return nil
}
