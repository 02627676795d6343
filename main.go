package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pacelineAPI/handlers"
	"pacelineAPI/middleware"
	"pacelineAPI/services"
)

const (
	defaultChallengesTable = "challenges"
	defaultTemplatesTable  = "challenges_template"
)

var (
	challengesTable  string
	templatesTable   string
	templateService  *services.TemplateService
	challengeService *services.ChallengeService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	challengesTable = os.Getenv("CHALLENGES_TABLE")
	if challengesTable == "" {
		challengesTable = defaultChallengesTable
	}
	templatesTable = os.Getenv("TEMPLATES_TABLE")
	if templatesTable == "" {
		templatesTable = defaultTemplatesTable
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var opts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatal("Failed to load AWS configuration:", err)
	}

	db := dynamodb.NewFromConfig(awsCfg)
	log.Printf("DynamoDB client ready (tables: %s, %s)", challengesTable, templatesTable)

	templateService = services.NewTemplateService(db, templatesTable)
	challengeService = services.NewChallengeService(db, challengesTable, templateService)

	middleware.InitPrometheus()
	services.InitMetrics()
}

func main() {
	challengeHandler := handlers.NewChallengeHandler(challengeService, templateService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "paceline-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/challenges/generate", challengeHandler.GenerateSeasonChallenges).Methods("POST")
	api.HandleFunc("/challenges/templates/refresh", challengeHandler.RefreshTemplates).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:        port,
		Handler:     corsHandler(r),
		ReadTimeout: 5 * time.Second,
		// A full replace cycle for a large season takes a while; give the
		// generation request room before the server cuts the response.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
