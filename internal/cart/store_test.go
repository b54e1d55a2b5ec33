package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/dropshoplabs/dropshop-backend/pkg/redis"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", pkgredis.Nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeRedis) CartKey(sessionID string) string {
	return "dropshop:cart:" + sessionID
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	client := newFakeRedis()
	store, err := NewSnapshotStore(client, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	originalPrice := decimal.RequireFromString("12.50")
	saved := New("sess-1").Add(Line{
		ProductID:         uuid.New(),
		Name:              "widget",
		UnitPrice:         decimal.RequireFromString("10.00"),
		OriginalUnitPrice: &originalPrice,
		Quantity:          2,
		ImageURL:          "https://cdn.example.com/widget.png",
		Category:          "electronics",
	})
	require.NoError(t, store.Save(ctx, saved))

	assert.Contains(t, client.values, "dropshop:cart:sess-1")
	assert.Equal(t, time.Hour, client.ttls["dropshop:cart:sess-1"])

	loaded, found, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, loaded.Lines, 1)

	line := loaded.Lines[0]
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "widget", line.Name)
	assert.Equal(t, "https://cdn.example.com/widget.png", line.ImageURL)
	assert.Equal(t, "electronics", line.Category)
	require.NotNil(t, line.OriginalUnitPrice)
	assert.True(t, line.OriginalUnitPrice.Equal(originalPrice))
	assert.True(t, loaded.Subtotal().Equal(decimal.RequireFromString("20.00")))
}

func TestSnapshotStoreMissingKeyIsEmptyCart(t *testing.T) {
	store, err := NewSnapshotStore(newFakeRedis(), time.Hour)
	require.NoError(t, err)

	loaded, found, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.False(t, found)
	assert.True(t, loaded.IsEmpty())
	assert.Equal(t, "sess-1", loaded.SessionID)
}

func TestSnapshotStoreCorruptSnapshotIsEmptyCart(t *testing.T) {
	client := newFakeRedis()
	client.values["dropshop:cart:sess-1"] = "{not json"
	store, err := NewSnapshotStore(client, time.Hour)
	require.NoError(t, err)

	loaded, found, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.False(t, found)
	assert.True(t, loaded.IsEmpty())
}

func TestSnapshotStoreDelete(t *testing.T) {
	client := newFakeRedis()
	store, err := NewSnapshotStore(client, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, New("sess-1").Add(Line{
		ProductID: uuid.New(),
		UnitPrice: decimal.RequireFromString("1.00"),
		Quantity:  1,
	})))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, found, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
}
