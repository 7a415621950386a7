package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"knowledge-rag/internal/handlers"
	"knowledge-rag/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Session        service.SessionService
	VectorStore    handlers.CollectionChecker
	Models         handlers.ModelLister
	CollectionName string
	GenerateModel  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	queryHandler := handlers.NewQueryHandler(deps.Session)
	chatHandler := handlers.NewChatHandler(deps.Session)
	indexHandler := handlers.NewIndexHandler(deps.Session)
	historyHandler := handlers.NewHistoryHandler(deps.Session)
	statsHandler := handlers.NewStatsHandler(deps.Session)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Models, deps.CollectionName, deps.GenerateModel)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodGet, "/history", historyHandler)
		r.Method(http.MethodDelete, "/history", historyHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
