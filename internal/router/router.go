package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/cardledger-backend/internal/handlers"
	"github.com/GregMSThompson/cardledger-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(middleware.NewMiddleware(deps.Firebase).FirebaseAuth)

	ush := handlers.NewUserHandlers(deps)
	ash := handlers.NewAccountHandlers(deps)
	cdh := handlers.NewCardHandlers(deps)
	trh := handlers.NewTransactionHandlers(deps)
	blh := handlers.NewBillHandlers(deps)

	r.Mount("/users", ush.UserRoutes())
	r.Mount("/accounts", ash.AccountRoutes())
	r.Mount("/transactions", trh.TransactionRoutes())

	// The cards tree spans three handlers, so it is assembled here rather
	// than mounted from a single handler.
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", cdh.ListCards)
		r.Post("/", cdh.CreateCard)
		r.Route("/{cardId}", func(r chi.Router) {
			r.Get("/", cdh.GetCard)
			r.Put("/", cdh.UpdateCard)
			r.Delete("/", cdh.DeleteCard)
			r.Get("/limit", cdh.GetLimit)
			r.Post("/purchases", trh.CreatePurchase)
			r.Get("/transactions", trh.ListTransactions)
			r.Mount("/bills", blh.BillRoutes())
		})
	})

	return r
}
