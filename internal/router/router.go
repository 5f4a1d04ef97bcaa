package router

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tanvirhm/recipe-vault/backend/internal/handlers"
	"github.com/tanvirhm/recipe-vault/backend/internal/middleware"
	"github.com/tanvirhm/recipe-vault/backend/internal/repositories"
	"github.com/tanvirhm/recipe-vault/backend/internal/services"
	"github.com/tanvirhm/recipe-vault/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.MetricsMiddleware())
	e.HTTPErrorHandler = jsonErrorHandler
	log.Println("Global middleware configured.")
}

// jsonErrorHandler translates every handler error into the API's
// {success:false, message} envelope.
func jsonErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if c.Response().Committed {
		return
	}
	if err := c.JSON(code, echo.Map{"success": false, "message": message}); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config) {
	db := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	recipeRepo := repositories.NewMongoRecipeRepository(db)

	ctx := context.Background()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := recipeRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create recipe indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// --- Initialize Services ---
	reconciler := services.NewReconciler(userRepo, recipeRepo)
	searchClient := services.NewSearchClient(cfg.SearchBaseURL, cfg.SearchAPIKey)

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Healthy"})
	})

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/users")
	authHandler := handlers.NewAuthHandler(userRepo, []byte(cfg.JWTSecret))
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Recipe routes ---
	recipeHandler := handlers.NewRecipeHandler(reconciler, searchClient)

	recipeGroup := e.Group("/api/recipes")
	recipeHandler.RegisterPublicRoutes(recipeGroup)

	protected := e.Group("/api/recipes")
	protected.Use(middleware.JWTAuthMiddleware([]byte(cfg.JWTSecret)))
	recipeHandler.RegisterProtectedRoutes(protected)
	log.Println("Recipe routes configured.")

	log.Println("All routes configured.")
}
