package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pinnlabs/varejo-backend/api/controllers"
	"github.com/pinnlabs/varejo-backend/api/middleware"
	addresssvc "github.com/pinnlabs/varejo-backend/internal/address"
	authsvc "github.com/pinnlabs/varejo-backend/internal/auth"
	cartsvc "github.com/pinnlabs/varejo-backend/internal/cart"
	catalogsvc "github.com/pinnlabs/varejo-backend/internal/catalog"
	checkoutsvc "github.com/pinnlabs/varejo-backend/internal/checkout"
	orderssvc "github.com/pinnlabs/varejo-backend/internal/orders"
	"github.com/pinnlabs/varejo-backend/pkg/auth/session"
	"github.com/pinnlabs/varejo-backend/pkg/config"
	"github.com/pinnlabs/varejo-backend/pkg/db"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
	"github.com/pinnlabs/varejo-backend/pkg/metrics"
	"github.com/pinnlabs/varejo-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions session.AccessSessionChecker

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Address  addresssvc.Service
	Orders   orderssvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/produtos", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(d.Catalog, logg))
			r.Get("/{produtoId}", controllers.ProductDetail(d.Catalog, logg))
		})

		r.Route("/atacadistas", func(r chi.Router) {
			r.Get("/", controllers.WholesalersList(d.Catalog, logg))
			r.Get("/{atacadistaId}", controllers.WholesalerDetail(d.Catalog, logg))
		})

		r.Route("/carrinho", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Cart, logg))
			r.Post("/itens", controllers.CartAddItem(d.Cart, logg))
			r.Put("/itens/{produtoId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/itens/{produtoId}", controllers.CartRemoveItem(d.Cart, logg))
			r.Delete("/limpar", controllers.CartClear(d.Cart, logg))
			r.Post("/finalizar", controllers.CartCheckout(d.Checkout, logg))
		})

		r.Route("/pedidos", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(d.Orders, logg))
			r.Get("/{pedidoId}", controllers.OrderDetail(d.Orders, logg))
			r.Patch("/{pedidoId}/status", controllers.OrderUpdateStatus(d.Orders, logg))
			r.Post("/{pedidoId}/duplicar", controllers.OrderDuplicate(d.Orders, logg))
		})

		r.Route("/enderecos", func(r chi.Router) {
			r.Get("/", controllers.AddressList(d.Address, logg))
			r.Post("/", controllers.AddressCreate(d.Address, logg))
			r.Put("/{enderecoId}", controllers.AddressUpdate(d.Address, logg))
			r.Delete("/{enderecoId}", controllers.AddressDelete(d.Address, logg))
			r.Post("/{enderecoId}/principal", controllers.AddressSetPrimary(d.Address, logg))
		})
	})

	return r
}
