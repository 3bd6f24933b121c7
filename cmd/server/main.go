package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hearthside/internal/config"
	"hearthside/internal/database"
	"hearthside/internal/handlers"
	"hearthside/internal/relationship"
	"hearthside/internal/repository"
	"hearthside/internal/security"
	"hearthside/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	lineRepo := repository.NewFamilyLineRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	inviteRepo := repository.NewInvitationRepository(db)

	// Initialize services
	catalog := relationship.NewCatalog()
	lookupService := service.NewLookupService(userRepo, lineRepo)
	graphService := service.NewGraphService(lineRepo, lookupService, catalog)
	authService := service.NewAuthService(userRepo, lineRepo, cfg.SessionDuration)
	noteService := service.NewNoteService(noteRepo, graphService)
	recipeService := service.NewRecipeService(recipeRepo, graphService)
	storyService := service.NewStoryService(storyRepo, graphService)
	backupService := service.NewBackupService(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	if cfg.InviteTokenSecret == "" {
		log.Println("Warning: INVITE_TOKEN_SECRET not set, invitation tokens will not survive restarts")
		cfg.InviteTokenSecret = security.GenerateSessionID()
	}
	inviteService := service.NewInviteService(inviteRepo, userRepo, graphService, emailService, cfg.InviteTokenSecret, cfg.InviteTokenDuration)

	if cfg.AdminEmail != "" {
		promoted, err := userRepo.SetAdminByEmail(cfg.AdminEmail)
		if err != nil {
			log.Printf("Warning: Failed to promote admin account: %v", err)
		} else if !promoted {
			log.Printf("Admin account %s not registered yet", cfg.AdminEmail)
		}
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	familyHandler := handlers.NewFamilyHandler(graphService, catalog)
	noteHandler := handlers.NewNoteHandler(noteService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	storyHandler := handlers.NewStoryHandler(storyService)
	inviteHandler := handlers.NewInviteHandler(inviteService, emailService)
	adminHandler := handlers.NewAdminHandler(backupService, graphService)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Family graph routes
	mux.HandleFunc("GET /api/family", middleware.RequireAuth(familyHandler.GetOwnFamily))
	mux.HandleFunc("GET /api/family/{personID}", middleware.RequireAuth(familyHandler.GetFamilyOf))
	mux.HandleFunc("POST /api/family/members", middleware.RequireAuth(familyHandler.AddMember))
	mux.HandleFunc("PUT /api/family/members/{personID}", middleware.RequireAuth(familyHandler.UpdateMember))
	mux.HandleFunc("DELETE /api/family/members/{personID}", middleware.RequireAuth(familyHandler.RemoveMember))
	mux.HandleFunc("GET /api/network-types", middleware.RequireAuth(familyHandler.GetNetworkTypes))

	// Invitation routes
	mux.HandleFunc("POST /api/invites", middleware.RequireAuth(inviteHandler.CreateInvite))
	mux.HandleFunc("POST /api/invites/accept", middleware.RequireAuth(inviteHandler.AcceptInvite))
	mux.HandleFunc("GET /api/invites", middleware.RequireAuth(inviteHandler.GetSentInvites))

	// Note routes
	mux.HandleFunc("POST /api/notes", middleware.RequireAuth(noteHandler.CreateNote))
	mux.HandleFunc("GET /api/notes", middleware.RequireAuth(noteHandler.GetOwnNotes))
	mux.HandleFunc("GET /api/notes/public", noteHandler.GetPublicNotes)
	mux.HandleFunc("GET /api/notes/{noteID}", middleware.RequireAuth(noteHandler.GetNote))
	mux.HandleFunc("PUT /api/notes/{noteID}", middleware.RequireAuth(noteHandler.UpdateNote))
	mux.HandleFunc("DELETE /api/notes/{noteID}", middleware.RequireAuth(noteHandler.DeleteNote))
	mux.HandleFunc("GET /api/people/{personID}/notes", middleware.RequireAuth(noteHandler.GetNotesOf))

	// Recipe routes
	mux.HandleFunc("POST /api/recipes", middleware.RequireAuth(recipeHandler.CreateRecipe))
	mux.HandleFunc("GET /api/recipes", middleware.RequireAuth(recipeHandler.GetOwnRecipes))
	mux.HandleFunc("GET /api/recipes/public", recipeHandler.GetPublicRecipes)
	mux.HandleFunc("GET /api/recipes/{recipeID}", middleware.RequireAuth(recipeHandler.GetRecipe))
	mux.HandleFunc("PUT /api/recipes/{recipeID}", middleware.RequireAuth(recipeHandler.UpdateRecipe))
	mux.HandleFunc("DELETE /api/recipes/{recipeID}", middleware.RequireAuth(recipeHandler.DeleteRecipe))
	mux.HandleFunc("GET /api/people/{personID}/recipes", middleware.RequireAuth(recipeHandler.GetRecipesOf))

	// Story routes
	mux.HandleFunc("GET /api/dice/roll", middleware.RequireAuth(storyHandler.RollDice))
	mux.HandleFunc("POST /api/stories", middleware.RequireAuth(storyHandler.CreateStory))
	mux.HandleFunc("GET /api/stories", middleware.RequireAuth(storyHandler.GetOwnStories))
	mux.HandleFunc("GET /api/stories/public", storyHandler.GetPublicStories)
	mux.HandleFunc("GET /api/stories/{storyID}", middleware.RequireAuth(storyHandler.GetStory))
	mux.HandleFunc("DELETE /api/stories/{storyID}", middleware.RequireAuth(storyHandler.DeleteStory))
	mux.HandleFunc("GET /api/people/{personID}/stories", middleware.RequireAuth(storyHandler.GetStoriesOf))

	// Admin routes
	mux.HandleFunc("GET /admin/backup", middleware.RequireAdmin(adminHandler.ExportBackup))
	mux.HandleFunc("POST /admin/backup", middleware.RequireAdmin(adminHandler.ImportBackup))
	mux.HandleFunc("POST /admin/family/reconcile", middleware.RequireAdmin(adminHandler.ReconcileFamilyGraph))
	mux.HandleFunc("GET /admin/family/one-sided", middleware.RequireAdmin(adminHandler.ListOneSidedEdges))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background maintenance
	go cleanupExpiredSessions(authService)
	go reconcileFamilyGraph(graphService, cfg.ReconcileInterval)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Failed to cleanup expired sessions: %v", err)
		}
	}
}

// reconcileFamilyGraph periodically completes one-sided family
// connections left behind by interrupted two-document writes
func reconcileFamilyGraph(graph *service.GraphService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		completed, err := graph.ReconcileOneSidedEdges()
		if err != nil {
			log.Printf("Family graph reconcile failed: %v", err)
			continue
		}
		if completed > 0 {
			log.Printf("Family graph reconcile completed %d one-sided connections", completed)
		}
	}
}
