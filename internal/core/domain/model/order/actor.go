package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ActorRole is the role of whoever requests a lifecycle operation.
type ActorRole int

const (
	RoleUnknown ActorRole = iota
	RoleCustomer
	RoleVendor
	RoleAdmin
	RoleSystem
)

var actorRoleNames = map[ActorRole]string{
	RoleCustomer: "customer",
	RoleVendor:   "vendor",
	RoleAdmin:    "admin",
	RoleSystem:   "system",
}

func ParseActorRole(s string) (ActorRole, error) {
	for r, name := range actorRoleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("actor role is invalid", fmt.Errorf("%q is not a valid role", s))
}

func (r ActorRole) String() string {
	if name, ok := actorRoleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Actor identifies the caller of an operation. Identity itself is
// established upstream; the lifecycle only checks role and ownership.
type Actor struct {
	id   kernel.UUID
	role ActorRole
}

func NewActor(id kernel.UUID, role ActorRole) (Actor, error) {
	var roleErr error
	if _, ok := actorRoleNames[role]; !ok {
		roleErr = errs.NewValueIsInvalidErrorWithCause("actor role is invalid", fmt.Errorf("%d is not a valid role", role))
	}
	if err := errors.Join(id.Validate(), roleErr); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// SystemActor is used for gateway callbacks and scheduled jobs.
func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() ActorRole {
	return a.role
}

func (a Actor) canAdvance() bool {
	return a.role == RoleVendor || a.role == RoleAdmin
}
