// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/lonetown/lonetown-backend/internal/auth"
	"github.com/lonetown/lonetown-backend/internal/common/database"
	"github.com/lonetown/lonetown-backend/internal/common/logger"
	"github.com/lonetown/lonetown-backend/internal/config"
	"github.com/lonetown/lonetown-backend/internal/matching"
	"github.com/lonetown/lonetown-backend/internal/messaging"
	"github.com/lonetown/lonetown-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Lone Town Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Build the application logger
	appLog, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatal("❌ Failed to build logger:", err)
	}
	defer appLog.Sync()

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional, used for the job locks)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), job locking disabled", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 7. Initialize Auth module
	log.Println("\n🔐 Step 6: Initializing Auth module...")
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, &auth.Config{
		JWTSecret:         cfg.JWTSecret,
		AccessTokenExpiry: cfg.AccessTokenExpiry,
		BCryptCost:        cfg.BCryptCost,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Auth module initialized")

	// 8. Initialize Profile module
	log.Println("\n🧑 Step 7: Initializing Profile module...")
	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, appLog)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profile module initialized")

	// 9. Initialize Matching module
	log.Println("\n💘 Step 8: Initializing Matching module...")
	policy := matching.Policy{
		MatchExpiry:       cfg.MatchExpiry,
		UnpinFreeze:       cfg.UnpinFreeze,
		RematchCooldown:   cfg.RematchCooldown,
		ScoreThreshold:    cfg.MatchScoreThreshold,
		MilestoneMessages: cfg.MilestoneMessages,
		MilestoneWindow:   cfg.MilestoneWindow,
	}
	matchStore := matching.NewPostgresStore(db)
	matchEngine := matching.NewEngine(matchStore, policy, appLog)
	milestoneTracker := matching.NewMilestoneTracker(matchStore, policy, appLog)
	matchHandler := matching.NewHandler(matchEngine, matchStore)
	log.Println("✅ Matching module initialized")

	// 10. Initialize Messaging module
	log.Println("\n💬 Step 9: Initializing Messaging module...")
	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo, matchStore, milestoneTracker, appLog)
	messagingHandler := messaging.NewHandler(messagingService)
	log.Println("✅ Messaging module initialized")

	// 11. Start background jobs
	log.Println("\n⏰ Step 10: Starting background jobs...")
	var jobLock matching.JobLock
	if redisClient != nil {
		jobLock = matching.NewRedisJobLock(redisClient)
	} else {
		jobLock = matching.NewNoopJobLock()
	}
	cleanupJob := matching.NewCleanupJob(matchStore, appLog)
	scheduler := matching.NewScheduler(matchEngine, cleanupJob, jobLock, appLog, cfg.DailyMatchHour, cfg.CleanupInterval)

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	scheduler.Start(jobsCtx)
	log.Printf("✅ Scheduler started (daily batch at %02d:00, cleanup every %s)", cfg.DailyMatchHour, cfg.CleanupInterval)

	// 12. Setup routes
	log.Println("\n🛣️  Step 11: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck(db)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	log.Println("   ✅ Auth routes registered")

	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	log.Println("   ✅ Profile routes registered")

	matching.RegisterRoutes(router, matchHandler, authMiddleware)
	log.Println("   ✅ Matching routes registered")

	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	log.Println("   ✅ Messaging routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 13. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck reports server and database health
func healthCheck(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// loggingMiddleware logs every request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		// Users table. Assessment dimensions default to zero, which marks
		// the assessment as incomplete until the profile module writes it.
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			gender VARCHAR(20) NOT NULL,
			interested_in VARCHAR(20) NOT NULL,
			state VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
			emotional_intelligence INTEGER NOT NULL DEFAULT 0,
			communication_style INTEGER NOT NULL DEFAULT 0,
			conflict_resolution INTEGER NOT NULL DEFAULT 0,
			relationship_goals INTEGER NOT NULL DEFAULT 0,
			life_values INTEGER NOT NULL DEFAULT 0,
			personality_type VARCHAR(4),
			love_language VARCHAR(50),
			attachment_style VARCHAR(20),
			intentionality_score INTEGER NOT NULL DEFAULT 0,
			total_matches INTEGER NOT NULL DEFAULT 0,
			successful_connections INTEGER NOT NULL DEFAULT 0,
			frozen_until TIMESTAMPTZ,
			can_receive_match_at TIMESTAMPTZ,
			last_match_at TIMESTAMPTZ,
			last_active_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_state ON users(state)`,

		// Matches table
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			user1_id TEXT NOT NULL REFERENCES users(id),
			user2_id TEXT NOT NULL REFERENCES users(id),
			compatibility_score INTEGER NOT NULL,
			emotional_match INTEGER NOT NULL,
			communication_match INTEGER NOT NULL,
			values_match INTEGER NOT NULL,
			personality_match INTEGER NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'ACTIVE',
			message_count INTEGER NOT NULL DEFAULT 0,
			first_message_at TIMESTAMPTZ,
			video_call_unlocked BOOLEAN NOT NULL DEFAULT FALSE,
			video_call_unlocked_at TIMESTAMPTZ,
			unpinned_by TEXT,
			unpinned_at TIMESTAMPTZ,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user1_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_status_expires ON matches(status, expires_at)`,

		// Messages table
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL REFERENCES matches(id),
			sender_id TEXT NOT NULL REFERENCES users(id),
			receiver_id TEXT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_match ON messages(match_id, created_at)`,

		// Feedback written for the user who was unpinned on
		`CREATE TABLE IF NOT EXISTS match_feedback (
			id TEXT PRIMARY KEY,
			match_id TEXT NOT NULL REFERENCES matches(id),
			recipient_id TEXT NOT NULL REFERENCES users(id),
			feedback_type VARCHAR(50) NOT NULL,
			feedback TEXT NOT NULL,
			insights JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feedback_recipient ON match_feedback(recipient_id, created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
