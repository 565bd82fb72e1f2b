package accounting_test

import (
	"testing"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name           string
		classification domain.Classification
		debit          string
		credit         string
		expected       string
	}{
		{"debit to asset increases", domain.Asset, "100", "0", "100"},
		{"credit to asset decreases", domain.Asset, "0", "100", "-100"},
		{"debit to expense increases", domain.Expense, "42.50", "0", "42.50"},
		{"debit to liability decreases", domain.Liability, "100", "0", "-100"},
		{"credit to liability increases", domain.Liability, "0", "100", "100"},
		{"credit to revenue increases", domain.Revenue, "0", "250.25", "250.25"},
		{"credit to equity increases", domain.Equity, "0", "10", "10"},
		{"unknown classification fails open as debit-normal", domain.Classification("GIZMO"), "75", "0", "75"},
		{"unknown classification never drops the amount", domain.Classification(""), "0", "75", "-75"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.SignedDelta(tt.classification, dec(tt.debit), dec(tt.credit))
			assert.True(t, dec(tt.expected).Equal(got), "expected %s got %s", tt.expected, got)
		})
	}
}

func line(debit, credit string) domain.JournalLine {
	return domain.JournalLine{Debit: dec(debit), Credit: dec(credit)}
}

func TestValidateEntryBalance(t *testing.T) {
	t.Run("balanced entry passes", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("100", "0"), line("0", "100")})
		assert.NoError(t, err)
	})

	t.Run("balanced to the cent after rounding", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("33.333", "0"), line("0", "33.334")})
		assert.NoError(t, err)
	})

	t.Run("unbalanced entry fails", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("100", "0"), line("0", "90")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not equal")
	})

	t.Run("zero-amount line fails", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("0", "0"), line("0", "0")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "got neither")
	})

	t.Run("both sides set fails", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("10", "10"), line("0", "0")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "got both")
	})

	t.Run("negative amount fails", func(t *testing.T) {
		err := accounting.ValidateEntryBalance([]domain.JournalLine{line("-10", "0"), line("0", "-10")})
		assert.Error(t, err)
	})

	t.Run("empty entry fails", func(t *testing.T) {
		assert.Error(t, accounting.ValidateEntryBalance(nil))
	})
}

func TestValidateLines(t *testing.T) {
	t.Run("well-formed lines pass without balancing", func(t *testing.T) {
		err := accounting.ValidateLines([]domain.JournalLine{line("100", "0")})
		assert.NoError(t, err)
	})

	t.Run("both sides set fails", func(t *testing.T) {
		err := accounting.ValidateLines([]domain.JournalLine{line("50", "50")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "got both")
	})

	t.Run("neither side set fails", func(t *testing.T) {
		err := accounting.ValidateLines([]domain.JournalLine{line("100", "0"), line("0", "0")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "got neither")
	})

	t.Run("negative amount fails", func(t *testing.T) {
		err := accounting.ValidateLines([]domain.JournalLine{line("-10", "0")})
		assert.Error(t, err)
	})

	t.Run("empty line set fails", func(t *testing.T) {
		assert.Error(t, accounting.ValidateLines(nil))
	})
}

func TestSumDebits(t *testing.T) {
	total := accounting.SumDebits([]domain.JournalLine{line("100", "0"), line("50", "0"), line("0", "150")})
	assert.True(t, dec("150").Equal(total))
}
