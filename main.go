package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/notekit/server/database"
	"github.com/notekit/server/handlers"
	"github.com/notekit/server/services"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	store, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize services
	mailer := services.NewMailer(cfg.SMTP)
	authService := services.NewAuthService(store, mailer, cfg.JWTSecret)
	googleService := services.NewGoogleAuthService(authService, store, cfg.Google)
	noteService := services.NewNoteService(store)
	todoService := services.NewTodoService(store)
	timetableService := services.NewTimetableService(store)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, googleService)
	authMiddleware := handlers.NewAuthMiddleware(authService)
	notesHandler := handlers.NewNotesHandler(noteService, hub)
	todosHandler := handlers.NewTodosHandler(todoService, hub)
	timetableHandler := handlers.NewTimetableHandler(timetableService, hub)
	wsHandler := handlers.NewWSHandler(authService, hub)

	// Setup router
	r := mux.NewRouter()

	// Auth routes
	r.HandleFunc("/api/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/forgot-password", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/verify-otp", authHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/api/reset-password", authHandler.ResetPassword).Methods("POST")
	r.Handle("/api/protected", authMiddleware.Auth(http.HandlerFunc(authHandler.Protected))).Methods("GET")
	r.HandleFunc("/auth/google", authHandler.GoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", authHandler.GoogleCallback).Methods("GET")

	// Notes routes
	r.HandleFunc("/api/notes", notesHandler.Create).Methods("POST")
	r.HandleFunc("/api/notes", notesHandler.List).Methods("GET")
	r.HandleFunc("/api/notes/{id}", notesHandler.Update).Methods("PUT")
	r.HandleFunc("/api/notes/{id}", notesHandler.Delete).Methods("DELETE")

	// Todos routes
	r.HandleFunc("/api/todos", todosHandler.Create).Methods("POST")
	r.HandleFunc("/api/todos", todosHandler.List).Methods("GET")
	r.HandleFunc("/api/todos/{id}", todosHandler.Get).Methods("GET")
	r.HandleFunc("/api/todos/{id}", todosHandler.Update).Methods("PUT")
	r.HandleFunc("/api/todos/{id}", todosHandler.Delete).Methods("DELETE")

	// Timetable routes
	r.HandleFunc("/api/timetable/templates", timetableHandler.GetTemplates).Methods("GET")
	r.HandleFunc("/api/timetable/templates", timetableHandler.SaveTemplates).Methods("POST")
	r.HandleFunc("/api/timetable/today", timetableHandler.Today).Methods("GET")
	r.HandleFunc("/api/timetable/mark-complete", timetableHandler.MarkComplete).Methods("POST")

	// WebSocket route for live updates
	r.HandleFunc("/api/ws", wsHandler.Handle)

	// Health check
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status":"error"}`))
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to NoteKit API"}`))
	}).Methods("GET")

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
