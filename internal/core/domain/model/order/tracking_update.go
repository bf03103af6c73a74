package order

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
)

// TrackingUpdate is one entry of an order's append-only history.
type TrackingUpdate struct {
	status    Status
	message   string
	timestamp time.Time
}

func NewTrackingUpdate(status Status, message string, timestamp time.Time) (TrackingUpdate, error) {
	var tsErr error
	if timestamp.IsZero() {
		tsErr = errs.NewValueIsRequiredError("timestamp")
	}
	if err := errors.Join(status.Validate(), tsErr); err != nil {
		return TrackingUpdate{}, err
	}

	return TrackingUpdate{
		status:    status,
		message:   message,
		timestamp: timestamp.UTC(),
	}, nil
}

func (u TrackingUpdate) Status() Status {
	return u.status
}

func (u TrackingUpdate) Message() string {
	return u.message
}

func (u TrackingUpdate) Timestamp() time.Time {
	return u.timestamp
}
