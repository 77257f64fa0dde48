package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/moment_cart/internal/domain"
)

// cartKey is the single namespaced key holding the whole persisted record.
const cartKey = "moment_cart:v1"

var ErrDraftNotFound = errors.New("draft not found")

// Adapter reads and writes the versioned cart record over a KV backend.
//
// Reads are fail-safe: a missing or malformed record degrades to an empty
// cart. Writes are fail-loud: a failed write is returned to the caller so it
// can retry or warn the user. The asymmetry is deliberate.
type Adapter struct {
	kv  KV
	now func() time.Time
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv, now: time.Now}
}

// CartStatistics is a stable housekeeping view of the persisted record.
type CartStatistics struct {
	ItemCount  int       `json:"item_count"`
	DraftCount int       `json:"draft_count"`
	SizeBytes  int       `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Initialize writes a default schema only when no record exists yet. It never
// overwrites existing data.
func (a *Adapter) Initialize(ctx context.Context) error {
	_, err := a.kv.Get(ctx, cartKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("storage init read failed: %w", err)
	}
	return a.write(ctx, defaultSchema(a.now()))
}

// LoadCartItems returns the persisted cart items, rehydrating every stored
// date. Any read failure returns an empty list, never an error.
func (a *Adapter) LoadCartItems(ctx context.Context) []domain.CartItem {
	schema, ok := a.read(ctx)
	if !ok {
		return []domain.CartItem{}
	}
	return itemsFromPersisted(schema.Cart.Items)
}

// SaveCartItems replaces cart.items in the persisted record. Write failures
// propagate.
func (a *Adapter) SaveCartItems(ctx context.Context, items []domain.CartItem) error {
	schema := a.readOrDefault(ctx)
	schema.Cart.Items = toPersistedItems(items)
	schema.Cart.Metadata.UpdatedAt = a.now().Format(timeFormat)
	return a.write(ctx, schema)
}

// ClearCart empties cart.items only; drafts and preferences stay untouched.
func (a *Adapter) ClearCart(ctx context.Context) error {
	return a.SaveCartItems(ctx, nil)
}

// SaveDraft upserts a draft by id.
func (a *Adapter) SaveDraft(ctx context.Context, draft domain.Draft) error {
	schema := a.readOrDefault(ctx)
	stored := toPersistedDraft(draft)

	replaced := false
	for i, d := range schema.Drafts {
		if d.ID == draft.ID {
			schema.Drafts[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		schema.Drafts = append(schema.Drafts, stored)
	}
	return a.write(ctx, schema)
}

// LoadDrafts returns all persisted drafts; like cart reads it degrades to an
// empty list on failure.
func (a *Adapter) LoadDrafts(ctx context.Context) []domain.Draft {
	schema, ok := a.read(ctx)
	if !ok {
		return []domain.Draft{}
	}
	out := make([]domain.Draft, len(schema.Drafts))
	for i, d := range schema.Drafts {
		out[i] = draftFromPersisted(d)
	}
	return out
}

func (a *Adapter) DeleteDraft(ctx context.Context, id string) error {
	schema := a.readOrDefault(ctx)
	for i, d := range schema.Drafts {
		if d.ID == id {
			schema.Drafts = append(schema.Drafts[:i], schema.Drafts[i+1:]...)
			return a.write(ctx, schema)
		}
	}
	return ErrDraftNotFound
}

func (a *Adapter) Preferences(ctx context.Context) domain.Preferences {
	schema, ok := a.read(ctx)
	if !ok {
		return domain.DefaultPreferences()
	}
	return schema.Preferences
}

func (a *Adapter) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	schema := a.readOrDefault(ctx)
	schema.Preferences = prefs
	return a.write(ctx, schema)
}

// Statistics reports record size and timestamps for external housekeeping.
func (a *Adapter) Statistics(ctx context.Context) (CartStatistics, error) {
	raw, err := a.kv.Get(ctx, cartKey)
	if err != nil {
		return CartStatistics{}, fmt.Errorf("failed to read cart record: %w", err)
	}
	var schema persistedSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return CartStatistics{}, fmt.Errorf("failed to decode cart record: %w", err)
	}
	return CartStatistics{
		ItemCount:  len(schema.Cart.Items),
		DraftCount: len(schema.Drafts),
		SizeBytes:  len(raw),
		CreatedAt:  parseTime(schema.Cart.Metadata.CreatedAt),
		UpdatedAt:  parseTime(schema.Cart.Metadata.UpdatedAt),
	}, nil
}

func (a *Adapter) read(ctx context.Context) (persistedSchema, bool) {
	raw, err := a.kv.Get(ctx, cartKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Printf("cart record read failed: %v", err)
		}
		return persistedSchema{}, false
	}
	var schema persistedSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		log.Printf("cart record is malformed: %v", err)
		return persistedSchema{}, false
	}
	return schema, true
}

// readOrDefault is the read half of read-modify-write. Starting from a fresh
// default on a broken record keeps writes possible after corruption.
func (a *Adapter) readOrDefault(ctx context.Context) persistedSchema {
	schema, ok := a.read(ctx)
	if !ok {
		return defaultSchema(a.now())
	}
	return schema
}

func (a *Adapter) write(ctx context.Context, schema persistedSchema) error {
	schema.Version = SchemaVersion
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to encode cart record: %w", err)
	}
	if err := a.kv.Set(ctx, cartKey, raw); err != nil {
		return fmt.Errorf("failed to write cart record: %w", err)
	}
	return nil
}
