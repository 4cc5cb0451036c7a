package router

import (
	"time"

	"github.com/sushitlalpan/sushi-be/internal/config"
	"github.com/sushitlalpan/sushi-be/internal/handler"
	"github.com/sushitlalpan/sushi-be/internal/middleware"
	"github.com/sushitlalpan/sushi-be/internal/model"
	"github.com/sushitlalpan/sushi-be/internal/repository"
	"github.com/sushitlalpan/sushi-be/internal/service"
	"github.com/sushitlalpan/sushi-be/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(200, time.Minute))

	alertThreshold, err := decimal.NewFromString(cfg.DiscrepancyAlertAmt)
	if err != nil {
		log.Warn().Str("value", cfg.DiscrepancyAlertAmt).Msg("invalid DISCREPANCY_ALERT_AMT, falling back to 100.00")
		alertThreshold = decimal.NewFromInt(100)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	closureRepo := repository.NewClosureRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	userRepo := repository.NewUserRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	closureSvc := service.NewClosureService(closureRepo, userRepo, branchRepo, dispatcher, rdb, alertThreshold, cfg.AlertRecipient)
	reportSvc := service.NewReportService(closureRepo, dispatcher, rdb, time.Duration(cfg.ReportCacheTTL)*time.Second)
	branchSvc := service.NewBranchService(branchRepo)
	userSvc := service.NewUserService(userRepo, branchRepo)
	expenseSvc := service.NewExpenseService(expenseRepo, branchRepo, userRepo)
	payrollSvc := service.NewPayrollService(payrollRepo, userRepo, branchRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	closuresH := handler.NewClosureHandler(closureSvc)
	reportsH := handler.NewReportHandler(reportSvc, cfg.AlertRecipient)
	branchesH := handler.NewBranchHandler(branchSvc)
	usersH := handler.NewUserHandler(userSvc)
	expensesH := handler.NewExpenseHandler(expenseSvc)
	payrollH := handler.NewPayrollHandler(payrollSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes. Tokens come from the identity service; both roles can
	// submit and read, review/delete/reports are admin-only.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	v1 := r.Group("/v1", jwtMW)
	{
		closures := v1.Group("/closures")
		{
			closures.POST("", anyStaff, closuresH.Create)
			closures.GET("", anyStaff, closuresH.List)
			// Static segments before :id so Gin does not shadow them
			closures.GET("/pending-review", adminOnly, closuresH.ListPendingReview)
			closures.GET("/review/:state", adminOnly, closuresH.ListByReviewState)
			closures.GET("/:id", anyStaff, closuresH.Get)
			closures.PUT("/:id", anyStaff, closuresH.Update)
			closures.DELETE("/:id", adminOnly, closuresH.Delete)
			closures.PATCH("/:id/review", adminOnly, closuresH.UpdateReview)
		}

		reports := v1.Group("/reports/sales", adminOnly)
		{
			reports.GET("/summary", reportsH.Summary)
			reports.GET("/period", reportsH.Period)
			reports.GET("/discrepancies", reportsH.Discrepancies)
			reports.POST("/discrepancies/pdf", reportsH.DiscrepanciesPDF)
		}

		branches := v1.Group("/branches")
		{
			branches.GET("", anyStaff, branchesH.List)
			branches.GET("/:id", anyStaff, branchesH.Get)
			branches.POST("", adminOnly, branchesH.Create)
			branches.PUT("/:id", adminOnly, branchesH.Update)
		}

		users := v1.Group("/users")
		{
			users.GET("", anyStaff, usersH.List)
			users.GET("/:id", anyStaff, usersH.Get)
			users.POST("", adminOnly, usersH.Create)
			users.PUT("/:id", adminOnly, usersH.Update)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", anyStaff, expensesH.Create)
			expenses.GET("", anyStaff, expensesH.List)
			expenses.GET("/summary", adminOnly, expensesH.Summary)
			expenses.GET("/:id", anyStaff, expensesH.Get)
			expenses.PUT("/:id", anyStaff, expensesH.Update)
			expenses.DELETE("/:id", adminOnly, expensesH.Delete)
			expenses.PATCH("/:id/review", adminOnly, expensesH.UpdateReview)
		}

		payroll := v1.Group("/payroll", adminOnly)
		{
			payroll.POST("", payrollH.Create)
			payroll.GET("", payrollH.List)
			payroll.GET("/:id", payrollH.Get)
			payroll.PUT("/:id", payrollH.Update)
			payroll.DELETE("/:id", payrollH.Delete)
			payroll.PATCH("/:id/review", payrollH.UpdateReview)
		}

		ops := v1.Group("/ops", adminOnly)
		{
			ops.GET("/dlq/:queue", handler.DLQInspect(rdb))
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
