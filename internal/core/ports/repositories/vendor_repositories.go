package repositories

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// VendorReader defines read operations for vendor data. Vendor CRUD lives
// outside this engine; the payments importer only resolves them.
type VendorReader interface {
	// FindVendorByCode retrieves a vendor by its human-readable code.
	FindVendorByCode(ctx context.Context, vendorCode string) (*domain.Vendor, error)

	// FindVendorsByCodes retrieves vendors for the given codes, keyed by code.
	// Missing codes are simply absent from the map.
	FindVendorsByCodes(ctx context.Context, vendorCodes []string) (map[string]domain.Vendor, error)
}

// VendorRepositoryFacade combines all vendor repository interfaces.
type VendorRepositoryFacade interface {
	VendorReader
}

// EFTBatchWriter defines write operations for pending EFT batches.
type EFTBatchWriter interface {
	// SaveBatch inserts a batch header and its items atomically.
	SaveBatch(ctx context.Context, batch domain.EFTBatch) error
}

// EFTBatchReader defines read operations for pending EFT batches.
type EFTBatchReader interface {
	// FindBatchByID retrieves a batch with its items.
	FindBatchByID(ctx context.Context, batchID string) (*domain.EFTBatch, error)
}

// EFTBatchRepositoryFacade combines all EFT batch repository interfaces.
type EFTBatchRepositoryFacade interface {
	EFTBatchReader
	EFTBatchWriter
}
