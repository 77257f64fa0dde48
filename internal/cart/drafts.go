package cart

import (
	"context"

	"github.com/fjod/moment_cart/internal/calc"
	"github.com/fjod/moment_cart/internal/domain"
	"github.com/fjod/moment_cart/internal/storage"
	"github.com/google/uuid"
)

// SaveDraft snapshots the current cart under a name. The live cart is left
// untouched.
func (s *Service) SaveDraft(ctx context.Context, name, description string, tags []string) (domain.Draft, error) {
	s.begin()

	snap := s.snapshot()
	now := s.now()
	draft := domain.Draft{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Items:       domain.CloneItems(snap.Items),
		TotalPrice:  calc.TotalPrice(snap.Items),
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        tags,
	}

	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return domain.Draft{}, s.fail(Translate(err))
	}
	s.finish()
	return draft, nil
}

// Drafts lists the persisted drafts. Fail-safe like every read.
func (s *Service) Drafts(ctx context.Context) []domain.Draft {
	return s.store.LoadDrafts(ctx)
}

// LoadDraft replaces the live cart with a draft's items and persists the
// result as the new cart.
func (s *Service) LoadDraft(ctx context.Context, draftID string) error {
	s.begin()

	var found *domain.Draft
	for _, d := range s.store.LoadDrafts(ctx) {
		if d.ID == draftID {
			draft := d
			found = &draft
			break
		}
	}
	if found == nil {
		return s.fail(Translate(storage.ErrDraftNotFound))
	}

	s.dispatch(domain.LoadDraft{Items: found.Items})
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.finish()
	return nil
}

// DeleteDraft removes a draft by id.
func (s *Service) DeleteDraft(ctx context.Context, draftID string) error {
	s.begin()
	if err := s.store.DeleteDraft(ctx, draftID); err != nil {
		return s.fail(Translate(err))
	}
	s.finish()
	return nil
}
