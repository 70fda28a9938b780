package meeting

import (
	"context"
	"time"

	"github.com/ganot/rollcall/internal/geo"
)

// Repository provides persistence for meetings. Session transitions must
// be applied atomically: concurrent activations of the same meeting must
// not interleave.
type Repository interface {
	Get(ctx context.Context, id string) (*Meeting, error)

	// Activate sets state, token, expiry and anchor in one conditional
	// update, succeeding only while the meeting is not closed. Returns
	// repository.ErrPreconditionFailed when the state guard fails.
	Activate(ctx context.Context, id, token string, expiry time.Time, anchor geo.Location) error

	// Close transitions an active meeting to closed. Returns
	// repository.ErrPreconditionFailed when the meeting is not active.
	Close(ctx context.Context, id string) error

	ListByTeacher(ctx context.Context, teacherID string) ([]Meeting, error)
}

// QRRenderer turns a session token into a displayable image, supplied by
// an external rendering collaborator.
type QRRenderer interface {
	DataURL(token string) (string, error)
}
