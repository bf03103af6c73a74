package commands

import (
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

// trackConflict counts writes lost to a concurrent update and returns err unchanged.
func trackConflict(err error) error {
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		metrics.OrderConflictsTotal.Inc()
	}
	return err
}
