package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/fundacct/fundledger/internal/utils/codes"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountImportService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	entityRepo  portsrepo.EntityRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
}

// NewAccountImportService creates the chart-of-accounts CSV import service.
func NewAccountImportService(
	accountRepo portsrepo.AccountRepositoryFacade,
	entityRepo portsrepo.EntityRepositoryFacade,
	fundRepo portsrepo.FundRepositoryFacade,
) portssvc.AccountImportSvcFacade {
	return &accountImportService{
		accountRepo: accountRepo,
		entityRepo:  entityRepo,
		fundRepo:    fundRepo,
	}
}

var _ portssvc.AccountImportSvcFacade = (*accountImportService)(nil)

// csvHeaderAliases maps canonicalized header spellings to logical field names.
// Export tools across installations disagree on header wording; all of these
// have been seen in the wild.
var csvHeaderAliases = map[string]string{
	"accountcode":    "account_code",
	"acctcode":       "account_code",
	"code":           "account_code",
	"entitycode":     "entity_code",
	"entity":         "entity_code",
	"glcode":         "gl_code",
	"gl":             "gl_code",
	"glaccount":      "gl_code",
	"fundnumber":     "fund_number",
	"fundno":         "fund_number",
	"fund":           "fund_number",
	"restriction":    "restriction",
	"restrictclass":  "restriction",
	"classification": "classification",
	"accounttype":    "classification",
	"class":          "classification",
	"description":    "description",
	"desc":           "description",
	"title":          "description",
	"status":         "status",
	"active":         "status",
	"balancesheet":   "balance_sheet",
	"bs":             "balance_sheet",
	"beginningbalance":     "beginning_balance",
	"beginbal":             "beginning_balance",
	"beginningbalancedate": "beginning_balance_date",
	"beginbaldate":         "beginning_balance_date",
	"lastused": "last_used",
}

// importRow is one parsed and validated CSV row staged for commit.
type importRow struct {
	rowNum  int
	account domain.Account
}

// ImportAccounts runs the two-phase chart-of-accounts import: phase one parses
// and validates every row, collecting all failures rather than stopping at the
// first; phase two commits every row in a single transaction, and only when
// phase one produced zero failures. A file either lands whole or not at all.
func (s *accountImportService) ImportAccounts(ctx context.Context, csvData io.Reader, userID string) (*dto.AccountsImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reader := csv.NewReader(csvData)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationError("could not read CSV header: " + err.Error())
	}
	fields := resolveHeader(header)
	// The full column set is required up front, even where individual values
	// may be blank; a file missing a column entirely is a different export
	// format, not a sparse one.
	for _, required := range []string{
		"account_code", "entity_code", "gl_code", "fund_number", "description",
		"status", "balance_sheet", "beginning_balance", "beginning_balance_date",
		"last_used", "restriction", "classification",
	} {
		if _, ok := fields[required]; !ok {
			return nil, apperrors.NewValidationError("CSV header is missing required column " + required)
		}
	}

	entities, err := s.entityRepo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	entityByCode := make(map[string]domain.Entity, len(entities))
	for _, e := range entities {
		entityByCode[strings.ToUpper(e.EntityCode)] = e
	}

	glCodes, err := s.accountRepo.FindGLCodes(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.AccountsImportResult{Ok: true}
	var staged []importRow
	fundCache := make(map[string][]domain.Fund)
	now := time.Now().UTC()

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Ok = false
			result.Log = append(result.Log, failRow(rowNum, "", "unreadable row: "+err.Error()))
			continue
		}

		account, failMsg := s.parseRow(ctx, record, fields, entityByCode, glCodes, fundCache, userID, now)
		if failMsg != "" {
			result.Ok = false
			result.Log = append(result.Log, failRow(rowNum, account.AccountCode, failMsg))
			continue
		}
		staged = append(staged, importRow{rowNum: rowNum, account: account})
	}

	if !result.Ok {
		logger.Warn("Chart-of-accounts import rejected",
			"failures", len(result.Log),
			"valid_rows", len(staged),
		)
		return result, nil
	}

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	for _, row := range staged {
		inserted, err := s.accountRepo.UpsertAccountInTx(ctx, tx, row.account)
		if err != nil {
			return nil, err
		}
		action := "Updated"
		if inserted {
			action = "Inserted"
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Log = append(result.Log, dto.ImportLogRow{
			Row: row.rowNum, Status: "OK", Action: action, Code: row.account.AccountCode,
		})
	}
	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Chart-of-accounts import committed",
		"inserted", result.Inserted,
		"updated", result.Updated,
	)
	return result, nil
}

// parseRow validates one CSV record and builds the account it stages. A
// non-empty second return is the row's failure message.
func (s *accountImportService) parseRow(
	ctx context.Context,
	record []string,
	fields map[string]int,
	entityByCode map[string]domain.Entity,
	glCodes map[string]domain.Classification,
	fundCache map[string][]domain.Fund,
	userID string,
	now time.Time,
) (domain.Account, string) {
	get := func(field string) string {
		idx, ok := fields[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	entityCode := strings.ToUpper(get("entity_code"))
	glCode := get("gl_code")
	fundNumber := strings.ToUpper(get("fund_number"))
	account := domain.Account{EntityCode: entityCode, GLCode: glCode, FundNumber: fundNumber}

	if entityCode == "" || glCode == "" || fundNumber == "" {
		return account, "entity_code, gl_code and fund_number are all required"
	}
	if _, ok := entityByCode[entityCode]; !ok {
		return account, fmt.Sprintf("unknown entity %q", entityCode)
	}

	restriction, ok := domain.ParseRestriction(get("restriction"))
	if !ok {
		return account, fmt.Sprintf("unrecognized restriction %q", get("restriction"))
	}
	account.Restriction = restriction

	derivedCode := codes.AccountCode(entityCode, glCode, fundNumber, restriction)
	if supplied := get("account_code"); supplied != "" {
		if part := codes.MismatchedPart(supplied, entityCode, glCode, fundNumber, restriction); part != "" {
			account.AccountCode = supplied
			return account, codes.Describe(part, supplied, entityCode, glCode, fundNumber, restriction)
		}
	}
	account.AccountCode = derivedCode

	classification, ok := domain.ParseClassification(get("classification"))
	if !ok {
		classification, ok = glCodes[glCode]
		if !ok {
			return account, fmt.Sprintf("no classification on row and gl code %q is not in the lookup table", glCode)
		}
	}
	account.Classification = classification

	// The fund must already exist under the row's full (entity, fund_number,
	// restriction) key; the importer never invents funds, and a fund number
	// alone is ambiguous because two funds may share it under different
	// restrictions.
	funds, cached := fundCache[entityCode]
	if !cached {
		loaded, err := s.fundRepo.ListFundsByEntity(ctx, entityCode)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return account, "fund lookup failed: " + err.Error()
		}
		funds = loaded
		fundCache[entityCode] = funds
	}
	numberExists := false
	restrictionMatches := false
	var carried []string
	for _, fund := range funds {
		if !strings.EqualFold(fund.FundNumber, fundNumber) {
			continue
		}
		numberExists = true
		carried = append(carried, string(fund.Restriction))
		if fund.Restriction == restriction {
			restrictionMatches = true
		}
	}
	if !numberExists {
		return account, fmt.Sprintf("unknown fund %q for entity %q", fundNumber, entityCode)
	}
	if !restrictionMatches {
		return account, fmt.Sprintf("restriction mismatch for fund %q: fund carries %q, row says %q",
			fundNumber, strings.Join(carried, "/"), string(restriction))
	}

	account.Description = get("description")
	account.Status = domain.ParseAccountStatus(get("status"))
	account.BalanceSheet = parseCSVBool(get("balance_sheet"))

	if raw := get("beginning_balance"); raw != "" {
		amount, err := parseCSVAmount(raw)
		if err != nil {
			return account, fmt.Sprintf("bad beginning balance %q", raw)
		}
		account.BeginningBalance = amount
	}
	if raw := get("beginning_balance_date"); raw != "" {
		date, err := parseCSVDate(raw)
		if err != nil {
			return account, fmt.Sprintf("bad beginning balance date %q", raw)
		}
		account.BeginningBalanceDate = &date
	}
	if raw := get("last_used"); raw != "" {
		date, err := parseCSVDate(raw)
		if err != nil {
			return account, fmt.Sprintf("bad last used date %q", raw)
		}
		account.LastUsed = &date
	}

	account.AccountID = uuid.NewString()
	account.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	return account, ""
}

// resolveHeader maps logical field names to column indices, tolerating the
// header spellings of every known export tool.
func resolveHeader(header []string) map[string]int {
	fields := make(map[string]int, len(header))
	for i, raw := range header {
		if logical, ok := csvHeaderAliases[codes.Canonicalize(raw)]; ok {
			if _, taken := fields[logical]; !taken {
				fields[logical] = i
			}
		}
	}
	return fields
}

func failRow(rowNum int, code, message string) dto.ImportLogRow {
	return dto.ImportLogRow{Row: rowNum, Status: "FAIL", Code: code, Message: message}
}

func parseCSVBool(raw string) bool {
	switch codes.Canonicalize(raw) {
	case "y", "yes", "true", "t", "1", "x":
		return true
	}
	return false
}

// parseCSVAmount parses a money amount, tolerating currency symbols, thousands
// separators and accounting-style parentheses for negatives.
func parseCSVAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// csvDateFormats are tried in order; exports mix ISO and US conventions.
var csvDateFormats = []string{"2006-01-02", "01/02/2006", "1/2/2006", time.RFC3339}

func parseCSVDate(raw string) (time.Time, error) {
	for _, format := range csvDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
