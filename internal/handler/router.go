package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/dragonglobal/pos-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware POS-сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/auth/logout", h.Logout)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.SaveDraft)
				r.Post("/complete", h.CompleteOrder)
				r.Get("/", h.GetOrders)
				r.Get("/{id}", h.GetOrder)
				r.Post("/{id}/ready", h.MarkReady)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.ListCustomers)
				r.Post("/", h.SaveCustomer)
				r.Get("/{id}", h.GetCustomer)
				r.Put("/{id}", h.UpdateCustomer)
				r.Delete("/{id}", h.DeleteCustomer)
			})

			r.Route("/menu", func(r chi.Router) {
				r.Get("/", h.GetMenu)
				r.Post("/", h.AddMenuItem)
				r.Put("/{id}", h.UpdateMenuItem)
				r.Delete("/{id}", h.DeleteMenuItem)
			})

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", h.GetRooms)
				r.Put("/{id}/status", h.SetRoomStatus)
			})

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)

			r.Get("/day/current", h.CurrentSession)

			// Операции администратора.
			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireAdmin)

				r.Post("/day/start", h.StartDay)
				r.Post("/day/end", h.EndDay)
				r.Get("/day/history", h.SessionHistory)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.ListEmployees)
					r.Post("/", h.AddEmployee)
					r.Put("/{id}", h.UpdateEmployee)
					r.Delete("/{id}", h.DeleteEmployee)
				})

				r.Get("/insight", h.SalesInsight)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
