package handlers

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/importjobs"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/fundacct/fundledger/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	jobs *importjobs.Store,
) {
	registerCustomValidations()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", GetHome)

	setupAPIV1Routes(r, cfg, services, jobs)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the specific
// route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	jobs *importjobs.Store,
) {
	rate := limiter.Rate{Period: cfg.RateLimitPeriod, Limit: cfg.RateLimitRequests}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1",
		cors.New(corsConfig(cfg)),
		middleware.RateLimit(limiterInstance),
		middleware.UserIdentityMiddleware(),
	)

	registerEntityRoutes(v1, services.Entity)
	registerFundRoutes(v1, services.Fund)
	registerAccountRoutes(v1, services.Account)
	registerEntryRoutes(v1, services.Posting)
	registerImportRoutes(v1, services.AccountImport, services.PaymentImport, jobs)
	registerMetricsRoutes(v1, services.Metrics)
}

// registerCustomValidations adds domain validations to gin's binding engine.
// "restriction" accepts any spelling ParseRestriction recognizes.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("restriction", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParseRestriction(fl.Field().String())
			return ok
		})
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-ID")
	return corsCfg
}
