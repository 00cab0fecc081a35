package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/plateful/server/internal/auth"
	"github.com/plateful/server/internal/blob"
	"github.com/plateful/server/internal/config"
	"github.com/plateful/server/internal/ids"
	"github.com/plateful/server/internal/mealpreps"
	"github.com/plateful/server/internal/planner"
	"github.com/plateful/server/internal/shopping"
	"github.com/plateful/server/internal/storage"
	"github.com/plateful/server/internal/storage/memory"
	"github.com/plateful/server/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	idGen := ids.NewRuntime()

	// Planner API
	plannerService := planner.NewService(s.storage, idGen)
	plannerHandler := planner.NewHandler(plannerService)

	// GET /v1/planner/week - week view anchored at a date
	s.mux.HandleFunc("GET /v1/planner/week", plannerHandler.HandleGetWeek)

	// GET /v1/planner/week/summary - nutrition rollup for a week
	s.mux.HandleFunc("GET /v1/planner/week/summary", plannerHandler.HandleGetSummary)

	// POST /v1/planner/meals - add a meal into a slot
	s.mux.HandleFunc("POST /v1/planner/meals", plannerHandler.HandleAddMeal)

	// DELETE /v1/planner/meals/{id} - remove a meal entry
	s.mux.HandleFunc("DELETE /v1/planner/meals/{id}", plannerHandler.HandleRemoveMeal)

	// Meal Preps API
	prepsService := mealpreps.NewService(s.storage, plannerService, idGen)
	prepsHandler := mealpreps.NewHandler(prepsService)

	// POST /v1/preps - create a prep plan
	s.mux.HandleFunc("POST /v1/preps", prepsHandler.HandleCreate)

	// GET /v1/preps - list prep plans
	s.mux.HandleFunc("GET /v1/preps", prepsHandler.HandleList)

	// GET /v1/preps/{id} - get a prep plan
	s.mux.HandleFunc("GET /v1/preps/{id}", prepsHandler.HandleGet)

	// DELETE /v1/preps/{id} - delete a prep plan
	s.mux.HandleFunc("DELETE /v1/preps/{id}", prepsHandler.HandleDelete)

	// GET /v1/preps/{id}/summary - per-day nutrition rollup
	s.mux.HandleFunc("GET /v1/preps/{id}/summary", prepsHandler.HandleSummary)

	// GET /v1/preps/{id}/shopping-list - aggregated ingredient list
	s.mux.HandleFunc("GET /v1/preps/{id}/shopping-list", prepsHandler.HandleShoppingList)

	// POST /v1/preps/import - apply a plan onto a week
	s.mux.HandleFunc("POST /v1/preps/import", prepsHandler.HandleImport)

	// Shopping Exports API
	exportsBlobStore := s.initBlobStore()
	shoppingService := shopping.NewService(
		s.storage,
		prepsService,
		idGen,
		exportsBlobStore,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	shoppingHandler := shopping.NewHandlers(shoppingService, s.config.ExportsListLimit)

	// POST /v1/shopping/exports - create export
	s.mux.HandleFunc("POST /v1/shopping/exports", shoppingHandler.HandleCreate)

	// GET /v1/shopping/exports - list exports
	s.mux.HandleFunc("GET /v1/shopping/exports", shoppingHandler.HandleList)

	// GET /v1/shopping/exports/{id}/download - download export
	s.mux.HandleFunc("GET /v1/shopping/exports/{id}/download", shoppingHandler.HandleDownload)
}

// initBlobStore initializes the blob store for shopping exports.
// Exports follow BLOB_MODE, with an optional EXPORTS_MODE override.
func (s *Server) initBlobStore() blob.Store {
	exportsCfg := s.config.Blob
	effectiveMode := s.config.Blob.EffectiveExportsMode()
	exportsCfg.Mode = effectiveMode
	exportsCfg.ExportsModeSet = false
	exportsCfg.ExportsMode = effectiveMode

	log.Printf("INFO blob: initializing exports store (mode=%s)", effectiveMode)
	store, mode, err := blob.NewBlobStore(exportsCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize exports store: %v", err)
	}
	log.Printf("INFO blob: exports blob mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Planner API: http://localhost%s/v1/planner/week\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
