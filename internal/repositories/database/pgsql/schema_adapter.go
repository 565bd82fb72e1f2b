package pgsql

import (
	"context"
	"fmt"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Installations of this system have been migrated through many schema
// generations, so the same logical column can live under different physical
// names (a debit amount may be stored as debit, debits or dr_amount) and some
// columns/tables exist only on newer installs. SchemaCaps is built from one
// catalog pass per pool lifetime and exposes the resolved physical names as a
// typed capability set; repositories depend on it and never query the catalog
// inline.
//
// Every identifier SchemaCaps hands out comes from the fixed alias lists
// below, so interpolating them into SQL cannot introduce injection; all values
// still travel as bind parameters.

// columnSpec is one logical column: its ordered alias preference list and the
// hard-coded default used when no alias exists. Optional columns resolve to
// absent instead of defaulting; writes simply skip them.
type columnSpec struct {
	aliases  []string
	def      string
	optional bool
}

// Logical column names used by the repositories.
const (
	ColEntryEntity    = "entity"
	ColEntryTarget    = "target_entity"
	ColEntryDate      = "entry_date"
	ColEntryReference = "reference"
	ColEntryType      = "entry_type"
	ColEntryStatus    = "status"
	ColEntryPosted    = "posted"
	ColEntryMode      = "entry_mode"
	ColEntryTotal     = "total"

	ColItemEntry          = "entry"
	ColItemAccount        = "account"
	ColItemFund           = "fund"
	ColItemDebit          = "debit"
	ColItemCredit         = "credit"
	ColItemMemo           = "memo"
	ColItemClassification = "classification"

	ColAccountCode           = "code"
	ColAccountLegacy         = "legacy"
	ColAccountClassification = "classification"
	ColAccountBalance        = "balance"
	ColAccountStatus         = "status"
	ColAccountLastUsed       = "last_used"

	ColFundNumber      = "number"
	ColFundRestriction = "restriction"
	ColFundBalance     = "balance"
)

// schemaCandidates maps table -> logical name -> candidates. Order matters:
// the first alias present in the catalog wins.
var schemaCandidates = map[string]map[string]columnSpec{
	"journal_entries": {
		ColEntryEntity:    {aliases: []string{"entity_code", "entity"}, def: "entity_code"},
		ColEntryTarget:    {aliases: []string{"target_entity_code", "target_entity"}, optional: true},
		ColEntryDate:      {aliases: []string{"entry_date", "journal_date", "date"}, def: "entry_date"},
		ColEntryReference: {aliases: []string{"reference_number", "ref_number", "refno"}, def: "reference_number"},
		ColEntryType:      {aliases: []string{"entry_type", "type"}, def: "entry_type"},
		ColEntryStatus:    {aliases: []string{"status"}, optional: true},
		ColEntryPosted:    {aliases: []string{"posted"}, optional: true},
		ColEntryMode:      {aliases: []string{"entry_mode"}, optional: true},
		ColEntryTotal:     {aliases: []string{"total_amount", "amount", "total"}, def: "total_amount"},
	},
	"journal_entry_items": {
		ColItemEntry:   {aliases: []string{"entry_id", "journal_entry_id", "je_id"}, def: "entry_id"},
		ColItemAccount: {aliases: []string{"account_id", "acct_id", "account"}, def: "account_id"},
		ColItemFund:    {aliases: []string{"fund_id", "fund_no", "fund"}, def: "fund_id"},
		ColItemDebit:   {aliases: []string{"debit", "debits", "dr_amount"}, def: "debit"},
		ColItemCredit:  {aliases: []string{"credit", "credits", "cr_amount"}, def: "credit"},
		ColItemMemo:    {aliases: []string{"memo", "notes"}, def: "memo"},
		// Classification snapshot taken at write time; only newer installs
		// carry it and reversals fall back to the account row without it.
		ColItemClassification: {aliases: []string{"classification", "account_type"}, optional: true},
	},
	"accounts": {
		ColAccountCode:           {aliases: []string{"account_code", "acct_code", "accountcode"}, def: "account_code"},
		ColAccountLegacy:         {aliases: []string{"legacy_code", "old_code"}, optional: true},
		ColAccountClassification: {aliases: []string{"classification", "account_type"}, def: "classification"},
		ColAccountBalance:        {aliases: []string{"current_balance", "balance"}, optional: true},
		ColAccountStatus:         {aliases: []string{"status"}, optional: true},
		ColAccountLastUsed:       {aliases: []string{"last_used"}, optional: true},
	},
	"funds": {
		ColFundNumber:      {aliases: []string{"fund_number", "fund_no"}, def: "fund_number"},
		ColFundRestriction: {aliases: []string{"restriction", "restrict_class"}, def: "restriction"},
		ColFundBalance:     {aliases: []string{"balance", "fund_balance"}, optional: true},
	},
}

// introspectedTables is everything one catalog pass covers, including the
// optional tables whose absence downgrades features rather than failing.
var introspectedTables = []string{
	"entities", "funds", "gl_codes", "accounts",
	"journal_entries", "journal_entry_items",
	"vendors", "eft_batches", "eft_batch_items",
}

// SchemaCaps is the resolved capability set for one installation.
type SchemaCaps struct {
	tables  map[string]bool
	columns map[string]map[string]string // table -> logical -> physical
}

// NewSchemaAdapter inspects the relational catalog once and resolves every
// logical column. Build it right after the pool and inject it into the
// repository container; do not rebuild per request.
func NewSchemaAdapter(ctx context.Context, pool *pgxpool.Pool) (*SchemaCaps, error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1);
	`
	rows, err := pool.Query(ctx, query, introspectedTables)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to introspect schema catalog", err)
	}
	defer rows.Close()

	catalog := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan catalog row", err)
		}
		if catalog[table] == nil {
			catalog[table] = make(map[string]bool)
		}
		catalog[table][column] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating catalog rows", err)
	}

	return resolveSchemaCaps(catalog), nil
}

// resolveSchemaCaps picks the canonical physical name for every logical column
// from a raw catalog listing. Split out from NewSchemaAdapter so resolution is
// testable without a database.
func resolveSchemaCaps(catalog map[string]map[string]bool) *SchemaCaps {
	caps := &SchemaCaps{
		tables:  make(map[string]bool, len(catalog)),
		columns: make(map[string]map[string]string, len(schemaCandidates)),
	}
	for table := range catalog {
		caps.tables[table] = true
	}

	for table, specs := range schemaCandidates {
		resolved := make(map[string]string, len(specs))
		existing := catalog[table]
		for logical, spec := range specs {
			physical := ""
			for _, alias := range spec.aliases {
				if existing[alias] {
					physical = alias
					break
				}
			}
			if physical == "" && !spec.optional {
				// No candidate exists: fall back to the most common default
				// and let the eventual statement fail loudly with a schema
				// error instead of silently degrading a financial calculation.
				physical = spec.def
			}
			resolved[logical] = physical
		}
		caps.columns[table] = resolved
	}
	return caps
}

// HasTable reports whether the installation has the given table.
func (c *SchemaCaps) HasTable(table string) bool {
	return c.tables[table]
}

// RequireTable returns a SchemaCapabilityError when the table is absent, so
// operators can distinguish an incompatible schema from bad data.
func (c *SchemaCaps) RequireTable(table string) error {
	if !c.tables[table] {
		return apperrors.NewSchemaCapabilityError(fmt.Sprintf("table %q does not exist on this installation", table))
	}
	return nil
}

// Column returns the resolved physical name for a required logical column.
// The result is always non-empty: a missing column resolves to its default.
func (c *SchemaCaps) Column(table, logical string) string {
	if cols, ok := c.columns[table]; ok {
		if physical, ok := cols[logical]; ok && physical != "" {
			return physical
		}
	}
	if spec, ok := schemaCandidates[table][logical]; ok && spec.def != "" {
		return spec.def
	}
	// Unknown logical names are programmer error; returning the name makes the
	// eventual SQL failure point at it.
	return logical
}

// OptionalColumn returns the resolved physical name for an optional logical
// column, and false when this installation does not have it.
func (c *SchemaCaps) OptionalColumn(table, logical string) (string, bool) {
	cols, ok := c.columns[table]
	if !ok {
		return "", false
	}
	physical, ok := cols[logical]
	return physical, ok && physical != ""
}
