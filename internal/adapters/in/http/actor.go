package http

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Identity is established by the gateway in front of this service, which
// forwards the authenticated user and role in these headers.
const (
	headerUserID = "X-User-ID"
	headerRole   = "X-Actor-Role"
)

func actorFrom(ctx echo.Context) (order.Actor, error) {
	rawID := ctx.Request().Header.Get(headerUserID)
	if rawID == "" {
		return order.Actor{}, errUnauthenticated
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return order.Actor{}, fmt.Errorf("%w: %w", errUnauthenticated, err)
	}

	role := order.RoleCustomer
	if raw := ctx.Request().Header.Get(headerRole); raw != "" {
		if role, err = order.ParseActorRole(raw); err != nil || role == order.RoleSystem {
			return order.Actor{}, fmt.Errorf("%w: role %q", errUnauthenticated, raw)
		}
	}

	return order.NewActor(id, role)
}

func requireAdmin(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if actor.Role() != order.RoleAdmin {
		return fmt.Errorf("%w: admin only", order.ErrActorNotAllowed)
	}
	return nil
}
