package repositories

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceDeltas carries the signed balance changes a mutation applies to the
// account and fund balance caches, keyed by id.
type BalanceDeltas struct {
	Accounts map[string]decimal.Decimal
	Funds    map[string]decimal.Decimal
}

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all line items of an entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByEntity retrieves a paginated list of entries for an entity
	// using token-based pagination.
	ListEntriesByEntity(ctx context.Context, entityCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ReferenceExists reports whether any entry carries the given reference
	// number. Used for import idempotency.
	ReferenceExists(ctx context.Context, referenceNumber string) (bool, error)
}

// EntryWriter defines the atomic write operations of the posting engine. Each
// call is one database transaction: header/lines writes and balance cache
// updates succeed or fail together.
type EntryWriter interface {
	// SaveEntry inserts the header and all lines and applies the balance
	// deltas, atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, deltas BalanceDeltas) error

	// ReplaceEntryLines deletes the entry's existing lines, inserts the new
	// set, updates the cached total and applies the net balance deltas
	// (reversal of the old lines plus effect of the new), atomically. Old
	// deltas must be fully reversed before new ones apply within the
	// transaction's statement order.
	ReplaceEntryLines(ctx context.Context, entryID string, newLines []domain.JournalLine, newTotal decimal.Decimal, deltas BalanceDeltas, updatedBy string, updatedAt time.Time) error

	// UpdateEntryStatus flips an entry's status without touching balances.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// MarkPosted transitions an entry to Posted and applies its balance deltas
	// in the same transaction.
	MarkPosted(ctx context.Context, entryID string, deltas BalanceDeltas, updatedBy string, updatedAt time.Time) error

	// DeleteEntry applies the reversal deltas and removes the entry and its
	// lines, atomically.
	DeleteEntry(ctx context.Context, entryID string, deltas BalanceDeltas) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
