package dto

import (
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one line item of a createEntry/replaceLines request.
// AccountRef and FundRef are raw references: an id, a canonical composite code,
// or a legacy alias. FundRef may be empty, in which case the fund is resolved
// from the account's own fund number.
type EntryLineRequest struct {
	AccountRef string          `json:"accountRef" binding:"required"`
	FundRef    string          `json:"fundRef"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo"`
}

// CreateEntryRequest defines the payload for creating a journal entry.
type CreateEntryRequest struct {
	EntityCode       string             `json:"entityCode" binding:"required"`
	TargetEntityCode string             `json:"targetEntityCode"`
	EntryDate        time.Time          `json:"entryDate" binding:"required"`
	ReferenceNumber  string             `json:"referenceNumber"`
	EntryType        string             `json:"entryType"`
	Status           string             `json:"status"` // draft|pending|posted; default draft
	Description      string             `json:"description"`
	Lines            []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReplaceLinesRequest defines the payload for replacing an entry's line items.
type ReplaceLinesRequest struct {
	Lines []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// LineResponse defines the data returned for a journal entry line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	FundID    string          `json:"fundID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string          `json:"entryID"`
	EntityCode       string          `json:"entityCode"`
	TargetEntityCode string          `json:"targetEntityCode,omitempty"`
	EntryDate        time.Time       `json:"entryDate"`
	ReferenceNumber  string          `json:"referenceNumber,omitempty"`
	EntryType        string          `json:"entryType,omitempty"`
	Status           string          `json:"status"`
	EntryMode        string          `json:"entryMode"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Description      string          `json:"description"`
	Lines            []LineResponse  `json:"lines,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
}

// ListEntriesResponse is the paginated entry listing.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to its response DTO.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:    l.LineID,
		AccountID: l.AccountID,
		FundID:    l.FundID,
		Debit:     l.Debit,
		Credit:    l.Credit,
		Memo:      l.Memo,
	}
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		EntityCode:       e.EntityCode,
		TargetEntityCode: e.TargetEntityCode,
		EntryDate:        e.EntryDate,
		ReferenceNumber:  e.ReferenceNumber,
		EntryType:        e.EntryType,
		Status:           string(e.Status),
		EntryMode:        string(e.EntryMode),
		TotalAmount:      e.TotalAmount,
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToLineResponse(l)
		}
	}
	return resp
}
