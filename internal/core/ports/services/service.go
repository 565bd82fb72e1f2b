package services

// ServiceContainer aggregates all service facades for dependency injection
// into the handler layer.
type ServiceContainer struct {
	Entity        EntitySvcFacade
	Fund          FundSvcFacade
	Account       AccountSvcFacade
	Posting       PostingSvcFacade
	AccountImport AccountImportSvcFacade
	PaymentImport PaymentImportSvcFacade
	Metrics       MetricsSvcFacade
}
