package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository runs the read-only queries behind the metrics
// aggregator. It recomputes from posted lines and never touches the caches.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// FindPostedLines retrieves posted line items with the classification and
// restriction they were posted under. An empty entityCode means all entities.
func (r *PgxReportingRepository) FindPostedLines(ctx context.Context, entityCode string, from, to time.Time) ([]domain.PostedLine, error) {
	entityCol := r.Schema.Column("journal_entries", ColEntryEntity)
	dateCol := r.Schema.Column("journal_entries", ColEntryDate)
	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	accountCol := r.Schema.Column("journal_entry_items", ColItemAccount)
	fundCol := r.Schema.Column("journal_entry_items", ColItemFund)
	debitCol := r.Schema.Column("journal_entry_items", ColItemDebit)
	creditCol := r.Schema.Column("journal_entry_items", ColItemCredit)
	classCol := r.Schema.Column("accounts", ColAccountClassification)
	restrictionCol := r.Schema.Column("funds", ColFundRestriction)

	postedPredicate := "TRUE"
	if statusCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryStatus); ok {
		postedPredicate = fmt.Sprintf("upper(e.%s) = 'POSTED'", statusCol)
	} else if postedCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryPosted); ok {
		postedPredicate = fmt.Sprintf("e.%s = TRUE", postedCol)
	}

	query := fmt.Sprintf(`
		SELECT i.%s, i.%s, COALESCE(a.%s, ''), COALESCE(f.%s, ''), e.%s,
		       COALESCE(i.%s, 0), COALESCE(i.%s, 0)
		FROM journal_entry_items i
		JOIN journal_entries e ON e.entry_id = i.%s
		JOIN accounts a ON a.account_id = i.%s
		LEFT JOIN funds f ON f.fund_id = i.%s
		WHERE %s
		  AND e.%s >= $1 AND e.%s <= $2
		  AND ($3 = '' OR upper(e.%s) = upper($3));
	`, accountCol, fundCol, classCol, restrictionCol, dateCol,
		debitCol, creditCol,
		entryCol, accountCol, fundCol,
		postedPredicate, dateCol, dateCol, entityCol)

	rows, err := r.Pool.Query(ctx, query, from, to, entityCode)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query posted lines", err)
	}
	defer rows.Close()

	var lines []domain.PostedLine
	for rows.Next() {
		var accountID, fundID, rawClass, rawRestriction string
		var entryDate time.Time
		var debit, credit decimal.Decimal
		if err := rows.Scan(&accountID, &fundID, &rawClass, &rawRestriction, &entryDate, &debit, &credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posted line row", err)
		}
		classification, _ := domain.ParseClassification(rawClass)
		restriction, _ := domain.ParseRestriction(rawRestriction)
		lines = append(lines, domain.PostedLine{
			AccountID:      accountID,
			FundID:         fundID,
			Classification: classification,
			Restriction:    restriction,
			EntryDate:      entryDate,
			Debit:          debit,
			Credit:         credit,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating posted line rows", err)
	}
	return lines, nil
}
