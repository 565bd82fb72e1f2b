package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/fundacct/fundledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postingService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
	entityRepo  portsrepo.EntityRepositoryFacade
}

// NewPostingService creates the posting engine service.
func NewPostingService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	fundRepo portsrepo.FundRepositoryFacade,
	entityRepo portsrepo.EntityRepositoryFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
		entityRepo:  entityRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// parseRequestedStatus maps the request's status field to a lifecycle state.
// Unlike storage-side parsing, an empty request defaults to Draft.
func parseRequestedStatus(raw string) (domain.EntryStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "draft":
		return domain.Draft, nil
	case "pending":
		return domain.Pending, nil
	case "posted":
		return domain.Posted, nil
	}
	return "", apperrors.NewValidationError("status must be draft, pending or posted, got " + raw)
}

// CreateEntry validates and persists a journal entry. Entries created with any
// status other than Pending must balance to the cent; Pending entries may be
// saved unbalanced and are re-validated when posted. The per-line checks
// (exactly one non-zero side, no negative amounts) apply to every status.
func (s *postingService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status, err := parseRequestedStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if _, err := s.entityRepo.FindEntityByCode(ctx, req.EntityCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("entity " + req.EntityCode + " does not exist")
		}
		return nil, err
	}
	if req.TargetEntityCode != "" {
		if _, err := s.entityRepo.FindEntityByCode(ctx, req.TargetEntityCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("target entity " + req.TargetEntityCode + " does not exist")
			}
			return nil, err
		}
	}

	if req.ReferenceNumber != "" {
		exists, err := s.journalRepo.ReferenceExists(ctx, req.ReferenceNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: reference number %s already used", apperrors.ErrDuplicate, req.ReferenceNumber)
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines, accounts, err := s.resolveLines(ctx, entryID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if status == domain.Pending {
		if err := accounting.ValidateLines(lines); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	} else if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnbalanced, err)
	}

	entry := domain.JournalEntry{
		EntryID:          entryID,
		EntityCode:       strings.ToUpper(strings.TrimSpace(req.EntityCode)),
		TargetEntityCode: strings.ToUpper(strings.TrimSpace(req.TargetEntityCode)),
		EntryDate:        req.EntryDate,
		ReferenceNumber:  req.ReferenceNumber,
		EntryType:        req.EntryType,
		Status:           status,
		EntryMode:        domain.Manual,
		TotalAmount:      accounting.SumDebits(lines),
		Description:      req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Only posted entries move balances; drafts and pending entries wait.
	deltas := portsrepo.BalanceDeltas{}
	if status == domain.Posted {
		deltas = computeDeltas(lines, accounts)
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines, deltas); err != nil {
		return nil, err
	}
	entry.Lines = lines
	logger.Info("Journal entry created",
		"entry_id", entry.EntryID,
		"entity_code", entry.EntityCode,
		"status", string(entry.Status),
		"total", entry.TotalAmount.String(),
	)
	return &entry, nil
}

// ReplaceLines swaps an entry's line set. For a posted entry the old lines'
// balance effects are reversed and the new lines' effects applied in the same
// transaction, so the caches never hold a half-replaced state.
func (s *postingService) ReplaceLines(ctx context.Context, entryID string, req dto.ReplaceLinesRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	oldLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newLines, newAccounts, err := s.resolveLines(ctx, entryID, req.Lines, userID, now)
	if err != nil {
		return nil, err
	}

	if entry.Status == domain.Pending {
		if err := accounting.ValidateLines(newLines); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	} else if err := accounting.ValidateEntryBalance(newLines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnbalanced, err)
	}

	deltas := portsrepo.BalanceDeltas{}
	if entry.Status == domain.Posted {
		oldAccounts, err := s.accountsForReversal(ctx, oldLines)
		if err != nil {
			return nil, err
		}
		deltas = mergeDeltas(negateDeltas(computeDeltas(oldLines, oldAccounts)), computeDeltas(newLines, newAccounts))
	}

	newTotal := accounting.SumDebits(newLines)
	if err := s.journalRepo.ReplaceEntryLines(ctx, entryID, newLines, newTotal, deltas, userID, now); err != nil {
		return nil, err
	}

	entry.Lines = newLines
	entry.TotalAmount = newTotal
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return entry, nil
}

// PostEntry re-validates balance and transitions Draft/Pending -> Posted,
// applying balance propagation atomically with the status flip.
func (s *postingService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is already posted", apperrors.ErrConflict, entryID)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnbalanced, err)
	}

	accounts, err := s.accountsOf(ctx, lines)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if !account.IsActive() {
			return nil, apperrors.NewValidationError("account " + account.AccountCode + " is inactive")
		}
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkPosted(ctx, entryID, computeDeltas(lines, accounts), userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.Lines = lines
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	logger.Info("Journal entry posted", "entry_id", entryID, "total", entry.TotalAmount.String())
	return entry, nil
}

// DeleteEntry removes an entry. Deleting a posted entry reverses every line's
// balance effect in the same transaction, under the classification each line
// was posted with rather than the account's current one.
func (s *postingService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	deltas := portsrepo.BalanceDeltas{}
	if entry.Status == domain.Posted {
		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return err
		}
		accounts, err := s.accountsForReversal(ctx, lines)
		if err != nil {
			return err
		}
		deltas = negateDeltas(computeDeltas(lines, accounts))
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID, deltas); err != nil {
		return err
	}
	logger.Info("Journal entry deleted", "entry_id", entryID, "was_posted", entry.Status == domain.Posted)
	return nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *postingService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of an entity's entries, newest first.
func (s *postingService) ListEntries(ctx context.Context, entityCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, nextToken, err := s.journalRepo.ListEntriesByEntity(ctx, entityCode, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// resolveLines turns raw line requests into journal lines: each account
// reference resolves through the id/code/alias chain, inactive accounts are
// rejected, and a missing fund reference falls back to the account's own fund.
func (s *postingService) resolveLines(ctx context.Context, entryID string, reqLines []dto.EntryLineRequest, userID string, now time.Time) ([]domain.JournalLine, map[string]domain.Account, error) {
	lines := make([]domain.JournalLine, 0, len(reqLines))
	accounts := make(map[string]domain.Account)

	for i, reqLine := range reqLines {
		account, err := s.accountRepo.ResolveAccount(ctx, reqLine.AccountRef)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, apperrors.NewValidationError(fmt.Sprintf("line %d: unknown account %q", i+1, reqLine.AccountRef))
			}
			return nil, nil, err
		}
		if !account.IsActive() {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("line %d: account %s is inactive", i+1, account.AccountCode))
		}
		accounts[account.AccountID] = *account

		fundRef := reqLine.FundRef
		if fundRef == "" {
			fundRef = account.FundNumber
		}
		fund, err := s.fundRepo.ResolveFund(ctx, account.EntityCode, fundRef)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, apperrors.NewValidationError(fmt.Sprintf("line %d: unknown fund %q for entity %s", i+1, fundRef, account.EntityCode))
			}
			return nil, nil, err
		}

		lines = append(lines, domain.JournalLine{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			AccountID:      account.AccountID,
			FundID:         fund.FundID,
			Classification: account.Classification,
			Debit:          reqLine.Debit,
			Credit:         reqLine.Credit,
			Memo:           reqLine.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return lines, accounts, nil
}

// accountsForReversal loads current account rows only when some line predates
// the per-line classification snapshot. Lines that carry their posted
// classification reverse from it alone, so a later reclassification of the
// account cannot skew the reversal.
func (s *postingService) accountsForReversal(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	for _, line := range lines {
		if line.Classification == "" {
			return s.accountsOf(ctx, lines)
		}
	}
	return map[string]domain.Account{}, nil
}

// accountsOf loads the accounts referenced by stored lines, keyed by id.
func (s *postingService) accountsOf(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}
	return s.accountRepo.FindAccountsByIDs(ctx, ids)
}

// computeDeltas maps lines to the signed balance changes of their accounts and
// funds under the classification sign rules. A line's own classification
// snapshot wins; lines persisted before the snapshot existed fall back to the
// account's current classification.
func computeDeltas(lines []domain.JournalLine, accounts map[string]domain.Account) portsrepo.BalanceDeltas {
	deltas := portsrepo.BalanceDeltas{
		Accounts: make(map[string]decimal.Decimal),
		Funds:    make(map[string]decimal.Decimal),
	}
	for _, line := range lines {
		classification := line.Classification
		if classification == "" {
			classification = accounts[line.AccountID].Classification
		}
		delta := accounting.SignedDelta(classification, line.Debit, line.Credit)
		deltas.Accounts[line.AccountID] = deltas.Accounts[line.AccountID].Add(delta)
		if line.FundID != "" {
			deltas.Funds[line.FundID] = deltas.Funds[line.FundID].Add(delta)
		}
	}
	return deltas
}

// negateDeltas flips every delta's sign, reversing an entry's balance effect.
func negateDeltas(deltas portsrepo.BalanceDeltas) portsrepo.BalanceDeltas {
	out := portsrepo.BalanceDeltas{
		Accounts: make(map[string]decimal.Decimal, len(deltas.Accounts)),
		Funds:    make(map[string]decimal.Decimal, len(deltas.Funds)),
	}
	for id, d := range deltas.Accounts {
		out.Accounts[id] = d.Neg()
	}
	for id, d := range deltas.Funds {
		out.Funds[id] = d.Neg()
	}
	return out
}

// mergeDeltas sums two delta sets.
func mergeDeltas(a, b portsrepo.BalanceDeltas) portsrepo.BalanceDeltas {
	out := portsrepo.BalanceDeltas{
		Accounts: make(map[string]decimal.Decimal, len(a.Accounts)+len(b.Accounts)),
		Funds:    make(map[string]decimal.Decimal, len(a.Funds)+len(b.Funds)),
	}
	for id, d := range a.Accounts {
		out.Accounts[id] = out.Accounts[id].Add(d)
	}
	for id, d := range b.Accounts {
		out.Accounts[id] = out.Accounts[id].Add(d)
	}
	for id, d := range a.Funds {
		out.Funds[id] = out.Funds[id].Add(d)
	}
	for id, d := range b.Funds {
		out.Funds[id] = out.Funds[id].Add(d)
	}
	return out
}
