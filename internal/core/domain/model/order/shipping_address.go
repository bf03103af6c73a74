package order

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ShippingAddress is the delivery address copied onto the order at checkout.
type ShippingAddress struct {
	fullName string
	phone    string
	street   string
	city     string
	state    string
	landmark *string
	point    *kernel.GeoPoint
}

func NewShippingAddress(
	fullName, phone, street, city, state string,
	landmark *string,
	point *kernel.GeoPoint,
) (ShippingAddress, error) {
	a := ShippingAddress{
		fullName: strings.TrimSpace(fullName),
		phone:    strings.TrimSpace(phone),
		street:   strings.TrimSpace(street),
		city:     strings.TrimSpace(city),
		state:    strings.TrimSpace(state),
	}
	if landmark != nil && strings.TrimSpace(*landmark) != "" {
		l := strings.TrimSpace(*landmark)
		a.landmark = &l
	}

	var pointErr error
	if point != nil {
		pointErr = point.Validate()
		p := *point
		a.point = &p
	}

	if err := errors.Join(
		required("full name", a.fullName),
		required("phone", a.phone),
		required("street", a.street),
		required("city", a.city),
		required("state", a.state),
		pointErr,
	); err != nil {
		return ShippingAddress{}, err
	}

	return a, nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func (a ShippingAddress) FullName() string { return a.fullName }
func (a ShippingAddress) Phone() string    { return a.phone }
func (a ShippingAddress) Street() string   { return a.street }
func (a ShippingAddress) City() string     { return a.city }
func (a ShippingAddress) State() string    { return a.state }

func (a ShippingAddress) Landmark() *string {
	if a.landmark == nil {
		return nil
	}
	l := *a.landmark
	return &l
}

// Point returns the delivery coordinates, or nil when unknown.
func (a ShippingAddress) Point() *kernel.GeoPoint {
	if a.point == nil {
		return nil
	}
	p := *a.point
	return &p
}
