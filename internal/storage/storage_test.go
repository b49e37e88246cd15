package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/lukman83/catalog-scrap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []models.Product {
	price := 1099.99
	capacity := 131072
	return []models.Product{
		{
			Title:            "iPhone 12 Pro Max 128GB",
			Price:            &price,
			ImageURL:         models.StringPtr("https://www.magpiehq.com/images/iphone-12-pro.png"),
			CapacityMB:       &capacity,
			Colour:           models.StringPtr("sky blue"),
			AvailabilityText: models.StringPtr("In Stock Online"),
			IsAvailable:      true,
			ShippingText:     models.StringPtr("Delivery by 2024-03-01"),
			ShippingDate:     models.StringPtr("2024-03-01"),
		},
		{Title: "Nokia <3310>"},
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleProducts()[1:])
	require.NoError(t, err)
	want := `[
    {
        "title": "Nokia <3310>",
        "price": null,
        "imageUrl": null,
        "capacityMB": null,
        "colour": null,
        "availabilityText": null,
        "isAvailable": false,
        "shippingText": null,
        "shippingDate": null
    }
]`
	assert.Equal(t, want, string(data))

	empty, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestEncode_SlashesUnescaped(t *testing.T) {
	t.Parallel()

	data, err := Encode(sampleProducts()[:1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"imageUrl": "https://www.magpiehq.com/images/iphone-12-pro.png"`)
}

func TestJSONFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "output.json")
	sink := NewJSONFile(path)
	ctx := context.Background()

	_, err := sink.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, sink.Write(ctx, "run-1", sampleProducts()))
	got, err := sink.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got)

	require.NoError(t, sink.Write(ctx, "run-2", nil))
	got, err = sink.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestRedisWriter(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	w, err := NewRedisWriter("redis://"+mr.Addr()+"/0", "", time.Hour)
	require.NoError(t, err)
	defer w.Close()
	ctx := context.Background()

	require.NoError(t, w.Ping(ctx))
	_, err = w.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Write(ctx, "run-42", sampleProducts()))
	got, err := w.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got)

	id, err := w.RunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-42", id)
	assert.Equal(t, time.Hour, mr.TTL("catalog:latest"))

	mr.FastForward(2 * time.Hour)
	_, err = w.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisWriter_FromClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	w := NewRedisWriterFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "phones", 0)
	require.NoError(t, w.Write(context.Background(), "r", nil))

	raw, err := mr.Get("phones")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Zero(t, mr.TTL("phones"))
}

type fakeSink struct {
	name    string
	err     error
	mu      sync.Mutex
	written []models.Product
}

func (f *fakeSink) Name() string { return f.name }
func (f *fakeSink) Write(_ context.Context, _ string, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = products
	return f.err
}

func TestFanout(t *testing.T) {
	t.Parallel()

	ok := &fakeSink{name: "json"}
	broken := &fakeSink{name: "redis", err: errors.New("connection refused")}

	var mu sync.Mutex
	var failed []string
	f := &Fanout{
		Sinks: []Sink{ok, broken},
		OnFailure: func(sink string, err error) {
			mu.Lock()
			failed = append(failed, sink)
			mu.Unlock()
		},
	}

	err := f.Write(context.Background(), "run", sampleProducts())
	require.Error(t, err)
	assert.EqualError(t, err, "sink redis: connection refused")
	assert.Equal(t, []string{"redis"}, failed)
	assert.Len(t, ok.written, 2, "healthy sinks still receive the catalog")

	assert.NoError(t, (&Fanout{Sinks: []Sink{ok}}).Write(context.Background(), "run", nil))
}

func TestPostgresWriter(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, dsn))
	require.NoError(t, Migrate(ctx, dsn), "migration is idempotent")

	w, err := NewPostgresWriter(ctx, dsn)
	require.NoError(t, err)
	defer w.Close()

	products := sampleProducts()
	products = append(products, products[0])
	require.NoError(t, w.Write(ctx, uuid.NewString(), products))

	got, err := w.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProducts(), got, "conflicting keys are skipped")
}
