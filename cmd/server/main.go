package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/XiupingWu/CubbiDriver/internal/domain/repository"
	"github.com/XiupingWu/CubbiDriver/internal/handler"
	"github.com/XiupingWu/CubbiDriver/internal/infrastructure/database"
	"github.com/XiupingWu/CubbiDriver/internal/infrastructure/maps"
	"github.com/XiupingWu/CubbiDriver/internal/middleware"
	repoImpl "github.com/XiupingWu/CubbiDriver/internal/repository"
	"github.com/XiupingWu/CubbiDriver/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	if os.Getenv("SUPABASE_URL") == "" || os.Getenv("SUPABASE_SERVICE_KEY") == "" {
		log.Fatal("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}

	googleMapsAPIKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if googleMapsAPIKey == "" {
		// Not fatal: the optimizer endpoint will fail per request with a
		// provider error instead.
		log.Printf("Warning: GOOGLE_MAPS_API_KEY is not set, route optimization will fail")
	}

	addLocationKey := os.Getenv("ADD_LOCATION_KEY")
	if addLocationKey == "" {
		log.Printf("Warning: ADD_LOCATION_KEY is not set, location creation is unauthenticated")
	}

	locationsRepo, cleanup, err := newLocationsRepository()
	if err != nil {
		log.Fatalf("failed to initialize backing store: %v", err)
	}
	defer cleanup()

	directionsProvider := maps.NewGoogleDirectionsProvider(googleMapsAPIKey)

	optimizeUseCase := usecase.NewRouteOptimizeUseCase(locationsRepo, directionsProvider)
	locationsUseCase := usecase.NewLocationsUseCase(locationsRepo)

	routeHandler := handler.NewRouteOptimizerHandler(optimizeUseCase)
	locationsHandler := handler.NewLocationsHandler(locationsUseCase)

	r := gin.Default()
	r.Use(cors.Default())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "CubbiDriver"})
	})

	api := r.Group("/api")
	{
		api.POST("/route-optimizer", routeHandler.PostRouteOptimizer)
		api.GET("/locations/:table", locationsHandler.GetLocations)
		api.POST("/locations", middleware.APIKeyAuth(addLocationKey), locationsHandler.PostLocation)
		api.PATCH("/locations/:table/:id", locationsHandler.PatchLocation)
		api.DELETE("/locations/:table/:id", locationsHandler.DeleteLocation)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("CubbiDriver server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// newLocationsRepository picks the store path: a direct Postgres
// connection when SUPABASE_DB_PASSWORD is configured, the Supabase REST
// layer otherwise.
func newLocationsRepository() (repository.LocationsRepository, func(), error) {
	if os.Getenv("SUPABASE_DB_PASSWORD") != "" {
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			return nil, nil, err
		}
		fmt.Println("Using direct PostgreSQL connection")
		return repoImpl.NewPostgresLocationsRepository(client), func() { client.Close() }, nil
	}

	client, err := database.NewSupabaseClient()
	if err != nil {
		return nil, nil, err
	}
	if err := client.HealthCheck(); err != nil {
		return nil, nil, err
	}
	fmt.Println("Using Supabase REST client")
	return repoImpl.NewSupabaseLocationsRepository(client), func() {}, nil
}
