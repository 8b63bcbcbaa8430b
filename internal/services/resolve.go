package services

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookstore/internal/entities"
)

// resolveOwners fills Book.Owner from the owner references. Owners that no
// longer exist resolve to nil.
func (s *BookService) resolveOwners(ctx context.Context, books ...*entities.Book) error {
	ids := entities.NewRefSet()
	for _, b := range books {
		if b.OwnerID != nil {
			ids = ids.Add(*b.OwnerID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	owners, err := s.owners.UserSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve owners: %w", err)
	}

	for _, b := range books {
		b.Owner = nil
		if b.OwnerID == nil {
			continue
		}
		if owner, ok := owners[*b.OwnerID]; ok {
			b.Owner = &owner
		}
	}
	return nil
}

// resolveBooks fills the FavoriteBooks/OwnedBooks projections in reference
// order. withPrice selects the detailed projection. Dangling ids are dropped.
func (s *UserService) resolveBooks(ctx context.Context, withPrice bool, users ...*entities.User) error {
	ids := entities.NewRefSet()
	for _, u := range users {
		for _, id := range u.FavoriteBookIDs {
			ids = ids.Add(id)
		}
		for _, id := range u.OwnedBookIDs {
			ids = ids.Add(id)
		}
	}

	summaries := map[string]entities.BookSummary{}
	if len(ids) > 0 {
		var err error
		summaries, err = s.books.BookSummaries(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to resolve books: %w", err)
		}
	}

	for _, u := range users {
		u.FavoriteBooks = project(u.FavoriteBookIDs, summaries, withPrice)
		u.OwnedBooks = project(u.OwnedBookIDs, summaries, withPrice)
	}
	return nil
}

func project(refs entities.RefSet, summaries map[string]entities.BookSummary, withPrice bool) []entities.BookSummary {
	out := make([]entities.BookSummary, 0, len(refs))
	for _, id := range refs {
		summary, ok := summaries[id]
		if !ok {
			continue
		}
		if !withPrice {
			summary.Price = nil
		}
		out = append(out, summary)
	}
	return out
}
