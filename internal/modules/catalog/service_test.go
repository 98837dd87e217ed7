package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemRepo struct {
	nextID int64
	items  map[int64]*Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{nextID: 1, items: make(map[int64]*Item)}
}

func (f *fakeItemRepo) Create(ctx context.Context, it *Item, createdBy int64) error {
	it.ID = f.nextID
	f.nextID++
	f.items[it.ID] = it
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it, nil
}

func (f *fakeItemRepo) GetIDByStockNo(ctx context.Context, stockNo string) (int64, error) {
	for _, it := range f.items {
		if it.StockNo == stockNo {
			return it.ID, nil
		}
	}
	return 0, ErrItemNotFound
}

func (f *fakeItemRepo) Update(ctx context.Context, it *Item) error {
	if _, ok := f.items[it.ID]; !ok {
		return ErrItemNotFound
	}
	f.items[it.ID] = it
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) ListWithBalance(ctx context.Context) ([]*ItemWithBalance, error) {
	return nil, nil
}

type fakeUnitRepo struct {
	nextID int64
	units  map[string]*Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{nextID: 1, units: make(map[string]*Unit)}
}

func (f *fakeUnitRepo) Create(ctx context.Context, name string) (*Unit, error) {
	u := &Unit{ID: f.nextID, Name: name}
	f.nextID++
	f.units[name] = u
	return u, nil
}

func (f *fakeUnitRepo) GetByName(ctx context.Context, name string) (*Unit, error) {
	u, ok := f.units[name]
	if !ok {
		return nil, ErrUnitNotFound
	}
	return u, nil
}

func (f *fakeUnitRepo) List(ctx context.Context) ([]*Unit, error) {
	var out []*Unit
	for _, u := range f.units {
		out = append(out, u)
	}
	return out, nil
}

func newTestService() (Service, *fakeItemRepo, *fakeUnitRepo) {
	itemRepo := newFakeItemRepo()
	unitRepo := newFakeUnitRepo()
	return NewService(itemRepo, unitRepo), itemRepo, unitRepo
}

func TestCreateItemSetsStockStatus(t *testing.T) {
	svc, _, _ := newTestService()

	stocked, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name: "Ballpen", BeginningStock: 100, NewDelivery: 20, UnitID: 1,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusInStock, stocked.Status)
	assert.True(t, stocked.IsActive)

	empty, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name: "Stapler", BeginningStock: 0, NewDelivery: 0, UnitID: 1,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusOutOfStock, empty.Status)
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name string
		req  CreateItemRequest
	}{
		{"missing name", CreateItemRequest{UnitID: 1}},
		{"missing unit", CreateItemRequest{Name: "Ballpen"}},
		{"negative stock", CreateItemRequest{Name: "Ballpen", UnitID: 1, BeginningStock: -1}},
		{"negative cost", CreateItemRequest{Name: "Ballpen", UnitID: 1, UnitCost: -0.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), tc.req, 1)
			assert.Error(t, err)
		})
	}
}

func TestUpdateItemKeepsOpeningStock(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateItem(context.Background(), CreateItemRequest{
		Name: "Ballpen", BeginningStock: 100, NewDelivery: 20, UnitID: 1, StockNo: "PEN-001",
	}, 1)
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateItem(context.Background(), created.ID, UpdateItemRequest{
		Name: "Ballpen (black)", UnitID: 2, UnitCost: 8.5, IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ballpen (black)", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 100, updated.BeginningStock)
	assert.Equal(t, 20, updated.NewDeliveryStock)
}

func TestCreateUnitIsIdempotentByName(t *testing.T) {
	svc, _, _ := newTestService()

	first, created, err := svc.CreateUnit(context.Background(), " box ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "box", first.Name)

	second, created, err := svc.CreateUnit(context.Background(), "box")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateUnitRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.CreateUnit(context.Background(), "   ")
	assert.Error(t, err)
}
