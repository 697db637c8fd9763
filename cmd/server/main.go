package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cp_journey/internal/api"
	"cp_journey/internal/app/service"
	"cp_journey/internal/app/worker"
	"cp_journey/internal/common/security"
	"cp_journey/internal/domain/repository"
	"cp_journey/internal/platform/config"
	"cp_journey/internal/platform/database"
	"cp_journey/internal/platform/judge/codeforces"
	"cp_journey/internal/platform/judge/cses"
	"cp_journey/internal/platform/judge/vjudge"
	"cp_journey/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")
	cfg := config.AppConfig

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	journeyRepo := repository.NewPgJourneyRepository(database.DB)

	// 6. Initialize Judge Clients
	// One shared transport; per-request timeouts come from request contexts.
	httpClient := &http.Client{}
	profileTimeout := time.Duration(cfg.ProfileTimeoutSeconds) * time.Second
	bulkTimeout := time.Duration(cfg.BulkTimeoutSeconds) * time.Second

	csesClient := cses.NewClient(cses.Config{
		BaseURL:        cfg.CSESBaseURL,
		UserAgent:      cfg.SyncUserAgent,
		ProfileTimeout: profileTimeout,
		CatalogTimeout: profileTimeout,
		Table:          cses.DefaultTopicTable,
		HTTPClient:     httpClient,
	})
	codeforcesClient := codeforces.NewClient(codeforces.Config{
		BaseURL:        cfg.CodeforcesBaseURL,
		UserAgent:      cfg.SyncUserAgent,
		ProfileTimeout: profileTimeout,
		StatusTimeout:  bulkTimeout,
		HTTPClient:     httpClient,
	})
	vjudgeClient := vjudge.NewClient(vjudge.Config{
		BaseURL:        cfg.VJudgeBaseURL,
		UserAgent:      cfg.SyncUserAgent,
		ProfileTimeout: profileTimeout,
		StatusTimeout:  bulkTimeout,
		HTTPClient:     httpClient,
	})

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	syncService := service.NewSyncService(csesClient, codeforcesClient, vjudgeClient)
	journeyService := service.NewJourneyService(journeyRepo)
	topicService := service.NewTopicService(
		csesClient, queue.RDB, cfg.TopicCacheKey,
		time.Duration(cfg.TopicCacheTTLMinutes)*time.Minute,
	)

	// 8. Initialize Auto-Sync Worker (as goroutines)
	autoSyncWorker := worker.NewAutoSyncWorker(queue.RDB, journeyRepo, syncService, journeyService)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go autoSyncWorker.Start(workerCtx)
	go autoSyncWorker.StartScheduler(workerCtx)
	fmt.Println("Auto-sync worker started.")

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(authService, syncService, journeyService, topicService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
