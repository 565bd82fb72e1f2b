package services

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/dto"
)

// PostingSvcFacade defines the posting engine operations. All mutations are
// atomic: a failure anywhere rolls the whole operation back.
type PostingSvcFacade interface {
	// CreateEntry validates and persists a journal entry with its lines and
	// applies balance propagation. Entries created with any status other than
	// Pending must balance to the cent.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// ReplaceLines reverses the entry's existing lines' balance effects,
	// replaces the line set and applies the new effects, recomputing the
	// cached total.
	ReplaceLines(ctx context.Context, entryID string, req dto.ReplaceLinesRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry re-validates balance and transitions Draft/Pending -> Posted.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry reverses every line's balance effect and removes the entry.
	DeleteEntry(ctx context.Context, entryID string, userID string) error

	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, entityCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
