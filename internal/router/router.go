// Package router assembles the HTTP surface: services, handlers, middleware
// and routes on a single gin engine.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/period"
	"fintrack/internal/planner"
	"fintrack/internal/services"

	_ "fintrack/internal/docs" // Import swagger docs
)

// Deps carries everything the router needs. Redis is optional; without it
// requests are not rate limited.
type Deps struct {
	DB                *gorm.DB
	Resolver          *period.Resolver
	Planner           planner.Planner
	JWTSecret         []byte
	ContributeRetries int

	Redis           *redis.Client
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// New builds the gin engine with every route mounted.
func New(d Deps) *gin.Engine {
	// Initialize services
	entryService := services.NewEntryService(d.DB, d.Resolver)
	budgetService := services.NewBudgetService(d.DB, d.Resolver)
	goalService := services.NewGoalService(d.DB, d.Resolver, d.ContributeRetries)
	statsService := services.NewStatsService(d.DB, d.Resolver)
	planService := services.NewPlanService(d.DB, d.Planner, d.Resolver)
	profileService := services.NewProfileService(d.DB)

	// Initialize handlers
	incomeHandler := handlers.NewIncomeHandler(entryService, d.Resolver)
	expenseHandler := handlers.NewExpenseHandler(entryService, d.Resolver)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	goalHandler := handlers.NewGoalHandler(goalService, d.Resolver)
	statsHandler := handlers.NewStatsHandler(statsService, d.Resolver)
	planHandler := handlers.NewPlanHandler(planService)
	profileHandler := handlers.NewProfileHandler(profileService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.JWTSecret))
	if d.Redis != nil {
		limiter := middleware.NewRateLimiter(d.Redis, d.RateLimitMax, d.RateLimitWindow)
		protected.Use(limiter.Middleware())
	}

	for prefix, h := range map[string]*handlers.EntryHandler{
		"/incomes":  incomeHandler,
		"/expenses": expenseHandler,
	} {
		g := protected.Group(prefix)
		g.GET("", h.ListEntries)
		g.POST("", h.CreateEntry)
		g.GET("/:id", h.GetEntry)
		g.PATCH("/:id", h.UpdateEntry)
		g.DELETE("/:id", h.DeleteEntry)
	}

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.GetGoals)
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PATCH("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/add", goalHandler.Contribute)

	stats := protected.Group("/stats")
	stats.GET("/net-worth", statsHandler.GetNetWorth)
	stats.GET("/savings", statsHandler.GetSavingsStats)
	stats.GET("/summary", statsHandler.GetSummary)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	ai := protected.Group("/ai")
	ai.POST("/generate-plan", planHandler.GeneratePlan)
	ai.GET("/plan", planHandler.GetPlan)
	ai.POST("/accept-plan", planHandler.AcceptPlan)
	ai.DELETE("/plan", planHandler.DeletePlan)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
