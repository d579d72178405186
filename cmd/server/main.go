package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/sdl-backend/internal/adapter/grpc"
	"github.com/simaogato/sdl-backend/internal/adapter/repository/postgres"
	rediscache "github.com/simaogato/sdl-backend/internal/adapter/repository/redis"
	"github.com/simaogato/sdl-backend/internal/config"
	"github.com/simaogato/sdl-backend/internal/domain"
	"github.com/simaogato/sdl-backend/internal/usecase/calculator"
	"github.com/simaogato/sdl-backend/internal/usecase/installment"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// 2. Setup Database
	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}
	log.Println("Database schema is up to date")

	// 3. Initialize Repositories (Postgres, optionally behind Redis)
	var planRepo domain.InstallmentPlanRepository = postgres.NewInstallmentPlanRepository(db)

	if cfg.CacheEnabled() {
		redisClient, err := rediscache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		planRepo = rediscache.NewCachedInstallmentPlanRepository(planRepo, redisClient, cfg.CacheTTL)
		log.Printf("Installment plan cache enabled (%s, ttl %s)", cfg.RedisAddr, cfg.CacheTTL)
	}

	// 4. Initialize Services (Use Cases)
	calculatorService := calculator.NewCalculatorService()
	installmentService := installment.NewInstallmentService(planRepo)

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log.Default()),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(calculatorService, installmentService, cfg.DefaultScale)
	grpcadapter.RegisterNumberServiceServer(grpcServer, grpcAdapter)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
	}

	// Start server in a goroutine
	go func() {
		log.Printf("gRPC server listening on %s (default scale %d)", cfg.GRPCAddr, cfg.DefaultScale)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")
}
