package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotJSONLayout(t *testing.T) {
	stock := 3
	p := testProduct("p1", "2.5")
	p.Stock = &stock
	s := New()
	s.AddToCart(p)
	s.SetUser(&User{ID: "7", Username: "sam", IsAdmin: false})

	raw, err := MarshalSnapshot(s.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"state": {
			"cart": [{"_id":"p1","name":"Product p1","description":"","price":"2.5","image":"","category":"Pens","stock":3,"quantity":1}],
			"user": {"id":"7","username":"sam","isAdmin":false},
			"isCartOpen": false
		},
		"version": 0
	}`, string(raw))
}

func TestEmptySnapshotHasEmptyCartArray(t *testing.T) {
	raw, err := MarshalSnapshot(Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"cart":[],"user":null,"isCartOpen":false},"version":0}`, string(raw))
}

func TestUnmarshalSnapshotRoundTripsStore(t *testing.T) {
	s := New()
	s.AddToCart(testProduct("a", "1.20"))
	s.AddToCart(testProduct("a", "1.20"))
	s.ToggleCart()

	raw, err := MarshalSnapshot(s.Snapshot())
	require.NoError(t, err)
	snap, err := UnmarshalSnapshot(raw)
	require.NoError(t, err)

	restored := New(WithSnapshot(snap))
	assert.Equal(t, s.Lines(), restored.Lines())
	assert.True(t, restored.CartOpen())
	assert.Equal(t, "2.40", snap.Total())
}

func TestUnmarshalSnapshotInvalid(t *testing.T) {
	_, err := UnmarshalSnapshot([]byte("{"))
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "stationery-store", Key(""))
	assert.Equal(t, "stationery-store:abc", Key(" abc "))
}

type memoryPersister struct {
	data    map[string]Snapshot
	saveErr error
	saves   int
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{data: map[string]Snapshot{}}
}

func (m *memoryPersister) Save(_ context.Context, key string, snap Snapshot) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = snap
	return nil
}

func (m *memoryPersister) Load(_ context.Context, key string) (Snapshot, error) {
	snap, ok := m.data[key]
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return snap, nil
}

func (m *memoryPersister) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestBindPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	persister := newMemoryPersister()
	key := Key("sid")

	s, err := Load(ctx, persister, key)
	require.NoError(t, err)
	assert.Empty(t, s.Lines())

	unbind := Bind(ctx, s, persister, key, nil)
	s.AddToCart(testProduct("p1", "4"))
	s.AddToCart(testProduct("p1", "4"))
	s.ToggleCart()
	assert.Equal(t, 3, persister.saves)

	restored, err := Load(ctx, persister, key)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.ItemCount())
	assert.True(t, restored.CartOpen())

	unbind()
	s.ClearCart()
	assert.Equal(t, 3, persister.saves)
}

func TestBindReportsSaveErrors(t *testing.T) {
	persister := newMemoryPersister()
	persister.saveErr = errors.New("boom")
	s := New()
	var gotKey string
	Bind(context.Background(), s, persister, "k", func(key string, err error) {
		gotKey = key
	})
	s.ToggleCart()
	assert.Equal(t, "k", gotKey)
}

func TestRedisPersisterSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	persister := NewRedisPersister(db, time.Hour)

	s := New()
	s.AddToCart(testProduct("p1", "1.5"))
	raw, err := MarshalSnapshot(s.Snapshot())
	require.NoError(t, err)

	mock.ExpectSet("stationery-store:sid", raw, time.Hour).SetVal("OK")
	require.NoError(t, persister.Save(ctx, "stationery-store:sid", s.Snapshot()))

	mock.ExpectGet("stationery-store:sid").SetVal(string(raw))
	snap, err := persister.Load(ctx, "stationery-store:sid")
	require.NoError(t, err)
	require.Len(t, snap.State.Cart, 1)
	assert.Equal(t, "p1", snap.State.Cart[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPersisterLoadMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	persister := NewRedisPersister(db, 0)

	mock.ExpectGet("stationery-store:none").RedisNil()
	_, err := persister.Load(context.Background(), "stationery-store:none")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	mock.ExpectGet("stationery-store:none").RedisNil()
	s, err := Load(context.Background(), persister, "stationery-store:none")
	require.NoError(t, err)
	assert.Empty(t, s.Lines())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPersisterDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	persister := NewRedisPersister(db, 0)
	mock.ExpectDel("stationery-store:sid").SetVal(1)
	require.NoError(t, persister.Delete(context.Background(), "stationery-store:sid"))
	require.NoError(t, mock.ExpectationsWereMet())
}
