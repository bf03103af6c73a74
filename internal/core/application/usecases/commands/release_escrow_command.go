package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const DefaultReleaseBatchSize = 100

var ErrReleaseEscrowCommandIsNotConstructed = errors.New(
	"ReleaseEscrowCommand must be created via NewReleaseEscrowCommand constructor",
)

// ReleaseEscrowCommand sweeps held escrows that are eligible for release at now.
type ReleaseEscrowCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

// NewReleaseEscrowCommand uses DefaultReleaseBatchSize when batchSize is zero.
func NewReleaseEscrowCommand(now time.Time, batchSize int) (ReleaseEscrowCommand, error) {
	if now.IsZero() {
		return ReleaseEscrowCommand{}, errs.NewValueIsRequiredError("now")
	}
	if batchSize == 0 {
		batchSize = DefaultReleaseBatchSize
	}
	if batchSize < 0 {
		return ReleaseEscrowCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}

	return ReleaseEscrowCommand{
		now:       now,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReleaseEscrowCommand) Validate() error {
	return c.guard.Validate(ErrReleaseEscrowCommandIsNotConstructed)
}

func (c ReleaseEscrowCommand) Now() time.Time {
	return c.now
}

func (c ReleaseEscrowCommand) BatchSize() int {
	return c.batchSize
}
