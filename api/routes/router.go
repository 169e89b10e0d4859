package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aldousari/sooqfresh-backend/api/controllers"
	"github.com/aldousari/sooqfresh-backend/api/middleware"
	"github.com/aldousari/sooqfresh-backend/internal/auth"
	"github.com/aldousari/sooqfresh-backend/internal/catalog"
	checkoutsvc "github.com/aldousari/sooqfresh-backend/internal/checkout"
	"github.com/aldousari/sooqfresh-backend/internal/matching"
	"github.com/aldousari/sooqfresh-backend/internal/offers"
	"github.com/aldousari/sooqfresh-backend/internal/orders"
	"github.com/aldousari/sooqfresh-backend/internal/shopping"
	"github.com/aldousari/sooqfresh-backend/internal/vendors"
	"github.com/aldousari/sooqfresh-backend/pkg/config"
	"github.com/aldousari/sooqfresh-backend/pkg/db"
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. The router wires auth,
// role gates and idempotency around the service layer.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisClient *redis.Client
	UserLoader  middleware.UserLoader
	Metrics     prometheus.Gatherer

	AuthService     auth.Service
	CatalogService  catalog.Service
	OffersService   offers.Service
	ShoppingService shopping.Service
	MatchingService matching.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	VendorsService  vendors.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps.DBPinger, deps.RedisClient))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface: account entry points and the shared catalog.
		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg),
				middleware.Idempotency(deps.RedisClient, logg),
			).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
				Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
				Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).
				Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).
				Get("/me", controllers.AuthProfile(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.CatalogService, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.CatalogService, logg))
		})

		// Buyer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.RoleBuyer), logg))
			r.Use(middleware.Idempotency(deps.RedisClient, logg))

			r.Route("/shopping-lists", func(r chi.Router) {
				r.Post("/", controllers.CreateShoppingList(deps.ShoppingService, logg))
				r.Get("/", controllers.ListShoppingLists(deps.ShoppingService, logg))
				r.Get("/{listID}", controllers.GetShoppingList(deps.ShoppingService, logg))
				r.Patch("/{listID}", controllers.UpdateShoppingList(deps.ShoppingService, logg))
				r.Delete("/{listID}", controllers.DeleteShoppingList(deps.ShoppingService, logg))
				r.Post("/{listID}/items", controllers.AddShoppingListItem(deps.ShoppingService, logg))
			})
			r.Route("/shopping-list-items", func(r chi.Router) {
				r.Patch("/{itemID}", controllers.UpdateShoppingListItem(deps.ShoppingService, logg))
				r.Delete("/{itemID}", controllers.RemoveShoppingListItem(deps.ShoppingService, logg))
			})

			r.Route("/matching", func(r chi.Router) {
				r.Get("/items/{itemID}", controllers.GetMatches(deps.MatchingService, logg))
				r.Post("/select", controllers.SelectOffer(deps.MatchingService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/preview", controllers.CheckoutPreview(deps.CheckoutService, logg))
				r.Post("/confirm", controllers.CheckoutConfirm(deps.CheckoutService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListBuyerOrders(deps.OrdersService, logg))
				r.Get("/{orderID}", controllers.GetBuyerOrder(deps.OrdersService, logg))
			})
		})

		// Vendor surface: requires an approved vendor account.
		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.RoleVendor), logg))
			r.Use(middleware.ApprovedVendor(deps.UserLoader, logg))

			r.Route("/offers", func(r chi.Router) {
				r.Post("/", controllers.VendorCreateOffer(deps.OffersService, logg))
				r.Get("/", controllers.VendorListOffers(deps.OffersService, logg))
				r.Get("/{offerID}", controllers.VendorGetOffer(deps.OffersService, logg))
				r.Patch("/{offerID}", controllers.VendorUpdateOffer(deps.OffersService, logg))
				r.Delete("/{offerID}", controllers.VendorDeleteOffer(deps.OffersService, logg))
				r.Post("/{offerID}/analyze", controllers.VendorAnalyzeOffer(deps.OffersService, logg))
			})
			r.Route("/order-items", func(r chi.Router) {
				r.Get("/", controllers.VendorListOrderItems(deps.OrdersService, logg))
				r.Post("/{itemID}/status", controllers.VendorAdvanceOrderItem(deps.OrdersService, logg))
			})
			r.Get("/stats", controllers.VendorOwnStats(deps.VendorsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.VendorsService, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.AdminListVendors(deps.VendorsService, logg))
			r.Get("/{vendorID}", controllers.AdminGetVendor(deps.VendorsService, logg))
			r.Post("/{vendorID}/approve", controllers.AdminApproveVendor(deps.VendorsService, logg))
			r.Post("/{vendorID}/reject", controllers.AdminRejectVendor(deps.VendorsService, logg))
			r.Get("/{vendorID}/stats", controllers.AdminVendorStats(deps.VendorsService, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCatalogItem(deps.CatalogService, logg))
			r.Patch("/{itemID}", controllers.AdminUpdateCatalogItem(deps.CatalogService, logg))
			r.Delete("/{itemID}", controllers.AdminDeleteCatalogItem(deps.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.OrdersService, logg))
			r.Get("/commission-summary", controllers.AdminCommissionSummary(deps.OrdersService, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(deps.OrdersService, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Post("/{offerID}/analyze", controllers.AdminAnalyzeOffer(deps.OffersService, logg))
		})
	})

	return r
}
