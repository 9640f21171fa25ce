package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazarlink/bazarlink-backend/api/controllers"
	"github.com/bazarlink/bazarlink-backend/api/middleware"
	"github.com/bazarlink/bazarlink-backend/internal/cart"
	checkoutsvc "github.com/bazarlink/bazarlink-backend/internal/checkout"
	"github.com/bazarlink/bazarlink-backend/internal/coupons"
	"github.com/bazarlink/bazarlink-backend/internal/orders"
	product "github.com/bazarlink/bazarlink-backend/internal/products"
	rfqsvc "github.com/bazarlink/bazarlink-backend/internal/rfq"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/config"
	"github.com/bazarlink/bazarlink-backend/pkg/db"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Stores   stores.Service
	Products product.Service
	Coupons  coupons.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	RFQ      rfqsvc.Service
	Orders   orders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, redisClient, logg))

		// Store registration happens before the token carries a store.
		r.Post("/stores", controllers.StoreRegister(svcs.Stores, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/stores", func(r chi.Router) {
				r.Get("/me", controllers.StoreMe(svcs.Stores, logg))
				r.Patch("/me", controllers.StoreUpdate(svcs.Stores, logg))
				r.Post("/{id}/kyc", controllers.StoreKYCDecision(svcs.Stores, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductBrowse(svcs.Products, logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Get("/mine", controllers.ProductListMine(svcs.Products, logg))
				r.Get("/{id}", controllers.ProductGet(svcs.Products, logg))
				r.Patch("/{id}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{id}", controllers.ProductDeactivate(svcs.Products, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Post("/", controllers.CouponIssue(svcs.Coupons, logg))
				r.Get("/", controllers.CouponList(svcs.Coupons, logg))
				r.Delete("/{id}", controllers.CouponDeactivate(svcs.Coupons, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Put("/", controllers.CartUpsert(svcs.Cart, logg))
				r.Post("/quote", controllers.CartQuote(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

			r.Route("/rfqs", func(r chi.Router) {
				r.Post("/", controllers.RFQCreate(svcs.RFQ, logg))
				r.Get("/", controllers.RFQListSent(svcs.RFQ, logg))
				r.Get("/incoming", controllers.RFQListIncoming(svcs.RFQ, logg))
				r.Get("/{id}", controllers.RFQGet(svcs.RFQ, logg))
				r.Post("/{id}/quotes", controllers.RFQSubmitQuote(svcs.RFQ, logg))
				r.Post("/{id}/convert", controllers.RFQConvert(svcs.RFQ, logg))
			})

			r.Route("/quotes", func(r chi.Router) {
				r.Post("/{id}/accept", controllers.QuoteAccept(svcs.RFQ, logg))
				r.Post("/{id}/reject", controllers.QuoteReject(svcs.RFQ, logg))
				r.Post("/{id}/counter", controllers.QuoteCounter(svcs.RFQ, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderListPlaced(svcs.Orders, logg))
				r.Get("/incoming", controllers.OrderListIncoming(svcs.Orders, logg))
				r.Get("/{id}", controllers.OrderGet(svcs.Orders, logg))
				r.Post("/{id}/decision", controllers.OrderDecision(svcs.Orders, logg))
			})
		})
	})

	return r
}
