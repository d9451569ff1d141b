package http

import (
	"github.com/gorilla/mux"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
)

// NewRouter builds the console router. Access per route comes from
// config.EndpointSecurityConfig.
func NewRouter(handler *ConsoleHandler, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger, authorize(tm))
	RegisterConsoleRoutes(router, handler)
	return router
}

// RegisterConsoleRoutes registers the console endpoints on router
func RegisterConsoleRoutes(router *mux.Router, h *ConsoleHandler) {
	router.HandleFunc("/healthz", h.HandleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/statuses", h.HandleStatuses).Methods("GET")

	api.HandleFunc("/rentals", h.HandleListRentals).Methods("GET")
	api.HandleFunc("/rentals", h.HandleCreateRental).Methods("POST")
	api.HandleFunc("/rentals/quote", h.HandleQuote).Methods("POST")
	api.HandleFunc("/rentals/{id:[0-9]+}/{action}", h.HandleRentalAction).Methods("POST")
	api.HandleFunc("/rentals/{id:[0-9]+}", h.HandleDeleteRental).Methods("DELETE")

	api.HandleFunc("/vehicles", h.HandleListVehicles).Methods("GET")
	api.HandleFunc("/vehicles/available", h.HandleAvailableVehicles).Methods("GET")
	api.HandleFunc("/clients", h.HandleListClients).Methods("GET")
}
