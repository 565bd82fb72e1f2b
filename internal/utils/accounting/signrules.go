package accounting

import (
	"fmt"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta maps a debit/credit pair to the signed balance change for an
// account of the given classification.
//
//	DEBIT  to ASSET/EXPENSE            -> +debit
//	CREDIT to ASSET/EXPENSE            -> -credit
//	DEBIT  to LIABILITY/EQUITY/REVENUE -> -debit
//	CREDIT to LIABILITY/EQUITY/REVENUE -> +credit
//
// An unrecognized classification is treated as debit-normal (Asset/Expense):
// the sign may be wrong for exotic legacy data but the amount is never dropped.
// Balance propagation and the metrics aggregator both call this function so the
// cached balances and recomputed reports cannot diverge on sign convention.
func SignedDelta(classification domain.Classification, debit, credit decimal.Decimal) decimal.Decimal {
	switch classification {
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit)
	case domain.Asset, domain.Expense:
		return debit.Sub(credit)
	}
	return debit.Sub(credit)
}

// ValidateLines checks the per-line invariants that hold for every entry
// regardless of status: at least one line, exactly one of debit/credit
// non-zero on each line, and no negative amounts.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry must have at least one line item")
	}
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d: amounts must not be negative", i+1)
		}
		switch {
		case line.Debit.IsZero() && line.Credit.IsZero():
			return fmt.Errorf("line %d: exactly one of debit/credit must be non-zero, got neither", i+1)
		case !line.Debit.IsZero() && !line.Credit.IsZero():
			return fmt.Errorf("line %d: exactly one of debit/credit must be non-zero, got both", i+1)
		}
	}
	return nil
}

// ValidateEntryBalance runs the per-line checks and then verifies that the sum
// of debits equals the sum of credits, rounded to cents.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if err := ValidateLines(lines); err != nil {
		return err
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	if !debits.Round(2).Equal(credits.Round(2)) {
		return fmt.Errorf("debits sum %s does not equal credits sum %s", debits.String(), credits.String())
	}
	return nil
}

// SumDebits returns the total of the debit side, the cached TotalAmount of an
// entry. For a balanced entry this equals the credit total.
func SumDebits(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}
