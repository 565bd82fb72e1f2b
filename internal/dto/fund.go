package dto

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateFundRequest defines the payload for creating a fund.
type CreateFundRequest struct {
	EntityCode  string `json:"entityCode" binding:"required"`
	FundNumber  string `json:"fundNumber" binding:"required,max=10"`
	Restriction string `json:"restriction" binding:"required,restriction"`
	Name        string `json:"name" binding:"required"`
}

// FundResponse defines the data returned for a fund.
type FundResponse struct {
	FundID      string          `json:"fundID"`
	EntityCode  string          `json:"entityCode"`
	FundNumber  string          `json:"fundNumber"`
	Restriction string          `json:"restriction"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
}

// ToFundResponse converts a domain.Fund to its response DTO.
func ToFundResponse(f *domain.Fund) FundResponse {
	return FundResponse{
		FundID:      f.FundID,
		EntityCode:  f.EntityCode,
		FundNumber:  f.FundNumber,
		Restriction: string(f.Restriction),
		Name:        f.Name,
		Balance:     f.Balance,
	}
}
