package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	nextID   int64
	requests map[int64]*Request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, requests: make(map[int64]*Request)}
}

func (f *fakeRepo) Create(ctx context.Context, req *Request) error {
	req.ID = f.nextID
	f.nextID++
	req.Status = StatusPending
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID int64) ([]*Request, error) {
	var out []*Request
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]*Request, error) {
	var out []*Request
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) ListItems(ctx context.Context, requestID int64) ([]*RequestItem, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Items, nil
}

func (f *fakeRepo) DeleteOwned(ctx context.Context, id, userID int64) error {
	r, ok := f.requests[id]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	if r.Status == StatusReleased {
		return ErrAlreadyReleased
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRepo) MarkReleased(ctx context.Context, id, releasedBy int64) error {
	r, ok := f.requests[id]
	if !ok {
		return ErrNotFound
	}
	if r.Status == StatusReleased {
		return ErrAlreadyReleased
	}
	r.Status = StatusReleased
	return nil
}

func (f *fakeRepo) Reopen(ctx context.Context, id int64) error {
	r, ok := f.requests[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = StatusPending
	return nil
}

type countingNotifier struct{ events []string }

func (c *countingNotifier) Broadcast(event string) { c.events = append(c.events, event) }

func TestCreateRejectsEmptySubmission(t *testing.T) {
	notifier := &countingNotifier{}
	svc := NewService(newFakeRepo(), notifier, zap.NewNop())

	_, err := svc.Create(context.Background(), 1, CreateRequest{Purpose: "office use"})
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Empty(t, notifier.events)
}

func TestCreateStoresSnapshotAndBroadcasts(t *testing.T) {
	repo := newFakeRepo()
	notifier := &countingNotifier{}
	svc := NewService(repo, notifier, zap.NewNop())

	itemID := int64(3)
	created, err := svc.Create(context.Background(), 7, CreateRequest{
		Purpose: "  monthly supplies  ",
		Items: []CreateRequestItem{
			{ItemID: &itemID, StockNo: "PEN-001", Unit: "piece", Name: "Ballpen", Quantity: 10},
			{StockNo: "FLD-002", Unit: "box", Name: "Folder", Quantity: 2, Remarks: "long"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "monthly supplies", created.Purpose)
	assert.Equal(t, StatusPending, created.Status)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "Ballpen", created.Items[0].Name)
	assert.Nil(t, created.Items[1].ItemID)

	assert.Len(t, notifier.events, 1)
}

func TestDeleteOwnedBroadcasts(t *testing.T) {
	repo := newFakeRepo()
	notifier := &countingNotifier{}
	svc := NewService(repo, notifier, zap.NewNop())

	created, err := svc.Create(context.Background(), 7, CreateRequest{
		Items: []CreateRequestItem{{Name: "Ballpen", Quantity: 1}},
	})
	require.NoError(t, err)
	notifier.events = nil

	require.NoError(t, svc.Delete(context.Background(), created.ID, 7))
	assert.Len(t, notifier.events, 1)
}

func TestDeleteRejectsForeignOrReleased(t *testing.T) {
	repo := newFakeRepo()
	notifier := &countingNotifier{}
	svc := NewService(repo, notifier, zap.NewNop())

	created, err := svc.Create(context.Background(), 7, CreateRequest{
		Items: []CreateRequestItem{{Name: "Ballpen", Quantity: 1}},
	})
	require.NoError(t, err)
	notifier.events = nil

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, 8), ErrNotFound)

	require.NoError(t, repo.MarkReleased(context.Background(), created.ID, 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, 7), ErrAlreadyReleased)

	assert.Empty(t, notifier.events)
}
