package rest

import (
	"fmt"
	"liveexperience/docs"
	"liveexperience/internal/config"
	"liveexperience/internal/service"
	"liveexperience/internal/transport/rest/handler"
	"liveexperience/internal/transport/rest/middleware"
	"liveexperience/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	EventService   *service.EventService
	SessionService *service.SessionService
	WSHub          *ws.Hub
	CORS           config.CORSConfig
	UnlockPerMin   int
	Log            zerolog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	eventHandler := handler.NewEventHandler(c.EventService, c.SessionService, c.Log)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.Log)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.Log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	unlockLimiter := middleware.NewRateLimiter(c.UnlockPerMin)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/events", eventHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/events/{eventId}", eventHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/events/{eventId}/register", eventHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/events/{eventId}/join", eventHandler.Join).Methods("POST", "OPTIONS")
	v1.HandleFunc("/docs/doc.json", docsHandler).Methods("GET")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, c.SessionService.Count())
	}).Methods("GET")

	// Session routes (require a token for that session)
	sessionRoutes := v1.PathPrefix("/sessions/{sessionId}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("", sessionHandler.End).Methods("DELETE", "OPTIONS")
	sessionRoutes.Handle("/unlock", unlockLimiter.Limit(http.HandlerFunc(sessionHandler.Unlock))).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/business", sessionHandler.SubmitBusiness).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/answer", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/followup", sessionHandler.SetFollowUp).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/message/toggle", sessionHandler.ToggleMessage).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/save", sessionHandler.Save).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/questions/{questionId:[0-9]+}/select", sessionHandler.SelectQuestion).Methods("POST", "OPTIONS")

	return r
}

func docsHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, `{"error":"api docs unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
