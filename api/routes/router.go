package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pricepal-backend/api/controllers"
	"github.com/angelmondragon/pricepal-backend/api/middleware"
	"github.com/angelmondragon/pricepal-backend/internal/cart"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	"github.com/angelmondragon/pricepal-backend/internal/shoppinglist"
	"github.com/angelmondragon/pricepal-backend/pkg/config"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
	"github.com/angelmondragon/pricepal-backend/pkg/redis"
)

// Dependencies are the services and infrastructure handles the router mounts.
type Dependencies struct {
	DB           controllers.Pinger
	Redis        *redis.Client
	Gatherer     prometheus.Gatherer
	Search       search.Service
	ShoppingList shoppinglist.Service
	Cart         cart.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	searchPolicy := middleware.RateLimitPolicy{
		Name:   "search",
		Window: cfg.Search.RateLimitWindow,
		Limit:  int64(cfg.Search.RateLimitPerWindow),
	}

	ready := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		ready["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/search/products", func(r chi.Router) {
			r.With(middleware.RateLimit(searchPolicy, rateLimiterOrNil(deps.Redis), logg)).
				Post("/", controllers.SearchProducts(deps.Search, logg))
			r.Get("/{productId}", controllers.SearchProductDetail(deps.Search, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleCustomer))

			r.Route("/shopping-list", func(r chi.Router) {
				r.Post("/process", controllers.ShoppingListProcess(deps.ShoppingList, logg))
				r.Put("/update", controllers.ShoppingListUpdate(deps.ShoppingList, logg))
				r.Delete("/clear", controllers.ShoppingListClear(deps.ShoppingList, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Delete("/items", controllers.CartRemoveItem(deps.Cart, logg))
			})
		})
	})

	return r
}

// rateLimiterOrNil keeps a nil *redis.Client from becoming a non-nil interface.
func rateLimiterOrNil(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return client
}
