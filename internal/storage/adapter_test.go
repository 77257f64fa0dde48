package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newTestAdapter(t *testing.T) (*Adapter, *MemoryStore) {
	t.Helper()
	kv := NewMemoryStore()
	a := NewAdapter(kv)
	a.now = func() time.Time { return testNow }
	require.NoError(t, a.Initialize(context.Background()))
	return a, kv
}

func sampleItem(eventID string) domain.CartItem {
	final := int64(800_000)
	return domain.CartItem{
		Event: domain.Event{
			ID:            eventID,
			Name:          "Event " + eventID,
			Status:        domain.EventStatusActive,
			StartsAt:      testNow.Add(48 * time.Hour),
			MomentCatalog: []domain.MomentKind{domain.MomentHalftime},
			PriceTable:    []domain.MomentPrice{{Kind: domain.MomentHalftime, Price: 400_000}},
			MaxMoments:    4,
			Attendance:    30_000,
			TVAttendance:  90_000,
		},
		CartItemID: "ci-" + eventID,
		AddedAt:    testNow,
		SelectedMoments: []domain.SelectedMoment{
			{Kind: domain.MomentHalftime, UnitPrice: 400_000, Quantity: 2, Period: domain.PeriodHalftime},
		},
		IsConfigured:   true,
		EstimatedPrice: 400_000,
		FinalPrice:     &final,
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	a, kv := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{sampleItem("e1")}))

	// A second initialize must not wipe existing data.
	require.NoError(t, a.Initialize(ctx))
	assert.Len(t, a.LoadCartItems(ctx), 1)

	raw, err := kv.Get(ctx, cartKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version":"1.0.0"`)
}

func TestSaveLoadCartItems_RoundTripWithDates(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	item := sampleItem("e1")
	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{item}))

	loaded := a.LoadCartItems(ctx)
	require.Len(t, loaded, 1)
	got := loaded[0]

	assert.Equal(t, item.CartItemID, got.CartItemID)
	assert.Equal(t, item.Event.ID, got.Event.ID)
	assert.Equal(t, item.SelectedMoments, got.SelectedMoments)
	require.NotNil(t, got.FinalPrice)
	assert.Equal(t, int64(800_000), *got.FinalPrice)

	// Dates came back as real time values, not strings.
	assert.True(t, got.AddedAt.Equal(item.AddedAt))
	assert.True(t, got.Event.StartsAt.Equal(item.Event.StartsAt))
}

func TestLoadCartItems_FailSafeOnCorruptRecord(t *testing.T) {
	a, kv := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{sampleItem("e1")}))
	require.NoError(t, kv.Set(ctx, cartKey, []byte("{not json")))

	items := a.LoadCartItems(ctx)
	assert.NotNil(t, items)
	assert.Empty(t, items, "corrupt record must read as an empty cart, not panic or error")
}

func TestLoadCartItems_FailSafeOnMissingRecord(t *testing.T) {
	a := NewAdapter(NewMemoryStore())
	assert.Empty(t, a.LoadCartItems(context.Background()))
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend gone")
}
func (brokenKV) Set(context.Context, string, []byte) error {
	return errors.New("backend gone")
}
func (brokenKV) Delete(context.Context, string) error {
	return errors.New("backend gone")
}

func TestSaveCartItems_FailLoudOnWriteFailure(t *testing.T) {
	a := NewAdapter(brokenKV{})
	err := a.SaveCartItems(context.Background(), []domain.CartItem{sampleItem("e1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write cart record")
}

func TestClearCart_LeavesDrafts(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{sampleItem("e1")}))
	require.NoError(t, a.SaveDraft(ctx, domain.Draft{
		ID: "d1", Name: "weekend", Items: []domain.CartItem{sampleItem("e1")},
		TotalPrice: 800_000, CreatedAt: testNow, UpdatedAt: testNow,
	}))

	require.NoError(t, a.ClearCart(ctx))
	assert.Empty(t, a.LoadCartItems(ctx))
	assert.Len(t, a.LoadDrafts(ctx), 1)
}

func TestSaveDraft_UpsertsByID(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	draft := domain.Draft{ID: "d1", Name: "first", CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, a.SaveDraft(ctx, draft))

	draft.Name = "renamed"
	draft.UpdatedAt = testNow.Add(time.Hour)
	require.NoError(t, a.SaveDraft(ctx, draft))

	drafts := a.LoadDrafts(ctx)
	require.Len(t, drafts, 1)
	assert.Equal(t, "renamed", drafts[0].Name)
	assert.True(t, drafts[0].UpdatedAt.Equal(testNow.Add(time.Hour)))
}

func TestDeleteDraft(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveDraft(ctx, domain.Draft{ID: "d1", Name: "one", CreatedAt: testNow, UpdatedAt: testNow}))
	require.NoError(t, a.SaveDraft(ctx, domain.Draft{ID: "d2", Name: "two", CreatedAt: testNow, UpdatedAt: testNow}))

	require.NoError(t, a.DeleteDraft(ctx, "d1"))
	drafts := a.LoadDrafts(ctx)
	require.Len(t, drafts, 1)
	assert.Equal(t, "d2", drafts[0].ID)

	err := a.DeleteDraft(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestPreferences_DefaultAndRoundTrip(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	prefs := a.Preferences(ctx)
	assert.True(t, prefs.AutoSave)
	assert.True(t, prefs.Notifications)

	prefs.AutoSave = false
	prefs.DefaultMomentKinds = []domain.MomentKind{domain.MomentHalftime}
	require.NoError(t, a.SavePreferences(ctx, prefs))

	got := a.Preferences(ctx)
	assert.False(t, got.AutoSave)
	assert.Equal(t, []domain.MomentKind{domain.MomentHalftime}, got.DefaultMomentKinds)
}

func TestStatistics(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.SaveCartItems(ctx, []domain.CartItem{sampleItem("e1"), sampleItem("e2")}))
	require.NoError(t, a.SaveDraft(ctx, domain.Draft{ID: "d1", Name: "one", CreatedAt: testNow, UpdatedAt: testNow}))

	stats, err := a.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ItemCount)
	assert.Equal(t, 1, stats.DraftCount)
	assert.Greater(t, stats.SizeBytes, 0)
	assert.True(t, stats.CreatedAt.Equal(testNow))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	kv := NewMemoryStore()
	_, err := kv.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
