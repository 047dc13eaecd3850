package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theyashdedhia/shopwave-backend/api/controllers"
	"github.com/theyashdedhia/shopwave-backend/api/middleware"
	authsvc "github.com/theyashdedhia/shopwave-backend/internal/auth"
	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	"github.com/theyashdedhia/shopwave-backend/internal/chat"
	"github.com/theyashdedhia/shopwave-backend/internal/orders"
	"github.com/theyashdedhia/shopwave-backend/internal/reviews"
	"github.com/theyashdedhia/shopwave-backend/internal/wishlist"
	"github.com/theyashdedhia/shopwave-backend/pkg/auth/session"
	"github.com/theyashdedhia/shopwave-backend/pkg/config"
	"github.com/theyashdedhia/shopwave-backend/pkg/db"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
	"github.com/theyashdedhia/shopwave-backend/pkg/metrics"
	"github.com/theyashdedhia/shopwave-backend/pkg/redis"
)

// Services bundles the domain services the router dispatches to.
type Services struct {
	Auth     authsvc.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Orders   orders.Service
	Wishlist wishlist.Service
	Reviews  reviews.Service
	Chat     chat.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
		middleware.GuestToken(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront browsing needs no identity at all.
		r.Get("/products", controllers.ProductsList(svcs.Catalog, logg))
		r.Get("/products/featured", controllers.ProductsFeatured(svcs.Catalog, logg))
		r.Get("/products/{productId}", controllers.ProductGet(svcs.Catalog, logg))
		r.Get("/products/{productId}/reviews", controllers.ReviewsList(svcs.Reviews, logg))
		r.Get("/categories", controllers.CategoriesList(svcs.Catalog, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
		})

		// Cart and chat serve guests by X-Guest-Token and signed-in users
		// by bearer token through the same handlers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/messages", controllers.ChatSend(svcs.Chat, logg))
				r.Get("/messages", controllers.ChatHistory(svcs.Chat, logg))
				r.Delete("/messages", controllers.ChatClear(svcs.Chat, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileMe(svcs.Auth, logg))
				r.Patch("/", controllers.ProfileUpdate(svcs.Auth, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
				r.Get("/", controllers.OrdersList(svcs.Orders, logg))
				r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
				r.Put("/{productId}", controllers.WishlistAdd(svcs.Wishlist, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(svcs.Wishlist, logg))
				r.Get("/{productId}", controllers.WishlistContains(svcs.Wishlist, logg))
			})

			r.Post("/products/{productId}/reviews", controllers.ReviewCreate(svcs.Reviews, logg))

			r.Route("/seller", func(r chi.Router) {
				r.Use(middleware.RequireSeller(logg))

				r.Get("/products", controllers.SellerProductsList(svcs.Catalog, logg))
				r.Post("/products", controllers.SellerProductCreate(svcs.Catalog, logg))
				r.Patch("/products/{productId}", controllers.SellerProductUpdate(svcs.Catalog, logg))
				r.Patch("/orders/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
				r.Get("/orders/stats", controllers.OrderStats(svcs.Orders, logg))
			})
		})
	})

	return r
}
