package release

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/ris-backend/internal/modules/catalog"
	"github.com/supplyoffice/ris-backend/internal/modules/inventory"
	"github.com/supplyoffice/ris-backend/internal/modules/request"
	"go.uber.org/zap"
)

type fakeRequestStore struct {
	mu     sync.Mutex
	status map[int64]string
	items  map[int64][]*request.RequestItem
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		status: make(map[int64]string),
		items:  make(map[int64][]*request.RequestItem),
	}
}

func (f *fakeRequestStore) addRequest(id int64, items ...*request.RequestItem) {
	f.status[id] = request.StatusPending
	f.items[id] = items
}

func (f *fakeRequestStore) MarkReleased(ctx context.Context, id, releasedBy int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.status[id]
	if !ok {
		return request.ErrNotFound
	}
	if status == request.StatusReleased {
		return request.ErrAlreadyReleased
	}
	f.status[id] = request.StatusReleased
	return nil
}

func (f *fakeRequestStore) Reopen(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.status[id]; !ok {
		return request.ErrNotFound
	}
	f.status[id] = request.StatusPending
	return nil
}

func (f *fakeRequestStore) ListItems(ctx context.Context, requestID int64) ([]*request.RequestItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[requestID], nil
}

func (f *fakeRequestStore) statusOf(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status[id]
}

type fakeResolver struct{ byStockNo map[string]int64 }

func (f *fakeResolver) GetIDByStockNo(ctx context.Context, stockNo string) (int64, error) {
	if id, ok := f.byStockNo[stockNo]; ok {
		return id, nil
	}
	return 0, catalog.ErrItemNotFound
}

type ledgerEntry struct {
	itemID  int64
	qty     int
	remarks string
	balance int
}

type fakeLedger struct {
	mu       sync.Mutex
	balances map[int64]int
	totalOut map[int64]int
	entries  []ledgerEntry
	failFor  map[int64]error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[int64]int),
		totalOut: make(map[int64]int),
		failFor:  make(map[int64]error),
	}
}

func (f *fakeLedger) ReleaseLine(ctx context.Context, itemID, userID int64, qty int, remarks string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[itemID]; ok {
		return 0, err
	}
	if _, ok := f.balances[itemID]; !ok {
		return 0, inventory.ErrNoSummary
	}
	f.balances[itemID] -= qty
	f.totalOut[itemID] += qty
	balance := f.balances[itemID]
	f.entries = append(f.entries, ledgerEntry{itemID: itemID, qty: qty, remarks: remarks, balance: balance})
	return balance, nil
}

func (f *fakeLedger) snapshot() ([]ledgerEntry, map[int64]int, map[int64]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := append([]ledgerEntry(nil), f.entries...)
	balances := make(map[int64]int, len(f.balances))
	for k, v := range f.balances {
		balances[k] = v
	}
	totalOut := make(map[int64]int, len(f.totalOut))
	for k, v := range f.totalOut {
		totalOut[k] = v
	}
	return entries, balances, totalOut
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) Broadcast(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func itemRef(id int64) *int64 { return &id }

func newEngine(requests *fakeRequestStore, resolver *fakeResolver, ledger *fakeLedger, notifier *fakeNotifier) Service {
	if resolver == nil {
		resolver = &fakeResolver{byStockNo: map[string]int64{}}
	}
	return NewService(requests, resolver, ledger, notifier, zap.NewNop())
}

func TestReleaseDeductsAndSkipsUnmatchedLines(t *testing.T) {
	// Item "Ballpen" has balance 120, totalOut 30. One valid line and one
	// line whose stock number matches nothing.
	requests := newFakeRequestStore()
	requests.addRequest(7,
		&request.RequestItem{ItemID: itemRef(1), Quantity: 20},
		&request.RequestItem{StockNo: "UNKNOWN-99", Quantity: 5},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 120
	ledger.totalOut[1] = 30
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	entries, balances, totalOut := ledger.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].itemID)
	assert.Equal(t, 20, entries[0].qty)
	assert.Equal(t, "RIS #7", entries[0].remarks)
	assert.Equal(t, 100, entries[0].balance)
	assert.Equal(t, 100, balances[1])
	assert.Equal(t, 50, totalOut[1])

	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, request.StatusReleased, requests.statusOf(7))
}

func TestReleaseResolvesByStockNumber(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(3, &request.RequestItem{StockNo: "PEN-001", Quantity: 4})
	resolver := &fakeResolver{byStockNo: map[string]int64{"PEN-001": 9}}
	ledger := newFakeLedger()
	ledger.balances[9] = 10
	notifier := &fakeNotifier{}

	engine := newEngine(requests, resolver, ledger, notifier)
	processed, err := engine.Release(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	_, balances, _ := ledger.snapshot()
	assert.Equal(t, 6, balances[9])
}

func TestReleaseProcessesLinesInOrder(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(5,
		&request.RequestItem{ItemID: itemRef(1), Quantity: 1},
		&request.RequestItem{ItemID: itemRef(2), Quantity: 2},
		&request.RequestItem{ItemID: itemRef(3), Quantity: 3},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 10
	ledger.balances[2] = 10
	ledger.balances[3] = 10
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	entries, _, _ := ledger.snapshot()
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{entries[0].itemID, entries[1].itemID, entries[2].itemID})
}

func TestReleaseSkipsInvalidQuantities(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(4,
		&request.RequestItem{ItemID: itemRef(1), Quantity: 0},
		&request.RequestItem{ItemID: itemRef(1), Quantity: -3},
		&request.RequestItem{ItemID: itemRef(1), Quantity: 5},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 50
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	entries, balances, _ := ledger.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, 45, balances[1])
}

func TestReleaseNothingProcessed(t *testing.T) {
	// Every line is unresolvable or invalid: the release must fail, leave
	// no ledger rows, broadcast nothing, and reopen the request so the
	// operator can fix the linkage and retry.
	requests := newFakeRequestStore()
	requests.addRequest(8,
		&request.RequestItem{StockNo: "GHOST-1", Quantity: 5},
		&request.RequestItem{ItemID: itemRef(1), Quantity: 0},
		&request.RequestItem{Quantity: 2},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 10
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 8, 1)
	require.ErrorIs(t, err, ErrNothingProcessed)
	assert.Zero(t, processed)

	entries, balances, _ := ledger.snapshot()
	assert.Empty(t, entries)
	assert.Equal(t, 10, balances[1])
	assert.Zero(t, notifier.count())
	assert.Equal(t, request.StatusPending, requests.statusOf(8))
}

func TestReleaseSkipsItemWithoutSummary(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(2,
		&request.RequestItem{ItemID: itemRef(99), Quantity: 5}, // no summary row
		&request.RequestItem{ItemID: itemRef(1), Quantity: 1},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 3
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestReleaseRequestNotFound(t *testing.T) {
	engine := newEngine(newFakeRequestStore(), nil, newFakeLedger(), &fakeNotifier{})

	_, err := engine.Release(context.Background(), 404, 1)
	require.ErrorIs(t, err, request.ErrNotFound)
}

func TestReleaseTwiceIsRejected(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(6, &request.RequestItem{ItemID: itemRef(1), Quantity: 5})
	ledger := newFakeLedger()
	ledger.balances[1] = 100
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	_, err := engine.Release(context.Background(), 6, 1)
	require.NoError(t, err)

	_, err = engine.Release(context.Background(), 6, 1)
	require.ErrorIs(t, err, request.ErrAlreadyReleased)

	// The second call must not have deducted again.
	_, balances, totalOut := ledger.snapshot()
	assert.Equal(t, 95, balances[1])
	assert.Equal(t, 5, totalOut[1])
	assert.Equal(t, 1, notifier.count())
}

func TestReleaseAllowsNegativeBalance(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(9, &request.RequestItem{ItemID: itemRef(1), Quantity: 12})
	ledger := newFakeLedger()
	ledger.balances[1] = 10
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	_, balances, _ := ledger.snapshot()
	assert.Equal(t, -2, balances[1])
}

func TestConcurrentReleasesDoNotLoseUpdates(t *testing.T) {
	// Two requests deduct from the same item concurrently; the final
	// balance must reflect both deductions.
	requests := newFakeRequestStore()
	requests.addRequest(11, &request.RequestItem{ItemID: itemRef(1), Quantity: 30})
	requests.addRequest(12, &request.RequestItem{ItemID: itemRef(1), Quantity: 45})
	ledger := newFakeLedger()
	ledger.balances[1] = 200
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)

	var wg sync.WaitGroup
	for _, id := range []int64{11, 12} {
		wg.Add(1)
		go func(requestID int64) {
			defer wg.Done()
			_, err := engine.Release(context.Background(), requestID, 1)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	_, balances, totalOut := ledger.snapshot()
	assert.Equal(t, 125, balances[1])
	assert.Equal(t, 75, totalOut[1])
	assert.Equal(t, 2, notifier.count())
}

func TestReleaseStoreFailureKeepsAppliedLines(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(13,
		&request.RequestItem{ItemID: itemRef(1), Quantity: 5},
		&request.RequestItem{ItemID: itemRef(2), Quantity: 5},
	)
	ledger := newFakeLedger()
	ledger.balances[1] = 50
	ledger.failFor[2] = assert.AnError
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	processed, err := engine.Release(context.Background(), 13, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNothingProcessed)
	assert.Equal(t, 1, processed)

	// The first line's deduction stands; the request stays released so the
	// operator cannot double-deduct it by retrying blindly.
	_, balances, _ := ledger.snapshot()
	assert.Equal(t, 45, balances[1])
	assert.Equal(t, request.StatusReleased, requests.statusOf(13))
	assert.Zero(t, notifier.count())
}

func TestReleaseStoreFailureBeforeAnyLineReopens(t *testing.T) {
	requests := newFakeRequestStore()
	requests.addRequest(14, &request.RequestItem{ItemID: itemRef(2), Quantity: 5})
	ledger := newFakeLedger()
	ledger.failFor[2] = assert.AnError
	notifier := &fakeNotifier{}

	engine := newEngine(requests, nil, ledger, notifier)
	_, err := engine.Release(context.Background(), 14, 1)
	require.Error(t, err)

	assert.Equal(t, request.StatusPending, requests.statusOf(14))
	assert.Zero(t, notifier.count())
}
