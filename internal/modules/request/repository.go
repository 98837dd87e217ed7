package request

import "context"

// Repository defines RIS request data storage.
type Repository interface {
	// Create inserts the header and all line items in one transaction.
	Create(ctx context.Context, req *Request) error

	ListByUser(ctx context.Context, userID int64) ([]*Request, error)
	ListAll(ctx context.Context) ([]*Request, error)

	// ListItems returns a request's line items in insertion order.
	ListItems(ctx context.Context, requestID int64) ([]*RequestItem, error)

	// DeleteOwned removes a pending request owned by userID. Returns
	// ErrNotFound when no such request exists, ErrAlreadyReleased when it
	// exists but has been released.
	DeleteOwned(ctx context.Context, id, userID int64) error

	// MarkReleased flips a pending request to RELEASED. Returns
	// ErrNotFound for an unknown id and ErrAlreadyReleased when the
	// request was released before.
	MarkReleased(ctx context.Context, id, releasedBy int64) error

	// Reopen flips a released request back to PENDING. Used to revert
	// the release gate when no line of the request could be applied.
	Reopen(ctx context.Context, id int64) error
}
