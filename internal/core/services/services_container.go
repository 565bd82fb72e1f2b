package services

import (
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Entity:  NewEntityService(repos.EntityRepo),
		Fund:    NewFundService(repos.FundRepo, repos.EntityRepo),
		Account: NewAccountService(repos.AccountRepo),
		Posting: NewPostingService(repos.JournalRepo, repos.AccountRepo, repos.FundRepo, repos.EntityRepo),
		AccountImport: NewAccountImportService(
			repos.AccountRepo, repos.EntityRepo, repos.FundRepo),
		PaymentImport: NewPaymentImportService(
			repos.JournalRepo, repos.AccountRepo, repos.FundRepo,
			repos.EntityRepo, repos.VendorRepo, repos.EFTBatchRepo),
		Metrics: NewMetricsService(repos.ReportingRepo),
	}
}
