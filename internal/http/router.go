package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/greenbridge-eco/greenbridge/docs"
	appmetrics "github.com/greenbridge-eco/greenbridge/internal/metrics"
	"github.com/greenbridge-eco/greenbridge/internal/http/handlers"
	"github.com/greenbridge-eco/greenbridge/internal/models"
)

// RouterConfig toggles the optional surfaces of the HTTP tree.
type RouterConfig struct {
	MetricsEnabled bool
	StaticRoot     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", appmetrics.Handler())
	}
	if cfg.StaticRoot != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticRoot))))
	}
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Get("/ws/notifications", handlers.NotificationsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface.
		r.Post("/auth/register", handlers.RegisterHandler)
		r.Post("/auth/login", handlers.LoginHandler)
		r.Post("/auth/refresh", handlers.RefreshHandler)
		r.Get("/auth/verify", handlers.VerifyEmailHandler)
		r.Post("/auth/password-reset", handlers.RequestPasswordResetHandler)
		r.Post("/auth/password-reset/confirm", handlers.ConfirmPasswordResetHandler)

		r.Get("/organizations", handlers.FilterOrganizationsHandler)
		r.Get("/organizations/{id}", handlers.GetOrganizationHandler)

		r.Get("/categories", handlers.GetCategoriesHandler)
		r.Get("/categories/{id}", handlers.GetCategoryHandler)
		r.Get("/materials", handlers.FilterMaterialsHandler)
		r.Get("/materials/search", handlers.SearchMaterialsHandler)
		r.Get("/materials/{id}", handlers.GetMaterialHandler)

		r.Get("/facilities", handlers.ListFacilitiesHandler)
		r.Get("/facilities/nearby", handlers.NearbyFacilitiesHandler)
		r.Get("/facilities/{id}", handlers.GetFacilityHandler)
		r.Get("/dropoffs", handlers.ListDropoffsHandler)
		r.Get("/dropoffs/nearby", handlers.NearbyDropoffsHandler)
		r.Get("/dropoffs/{id}", handlers.GetDropoffHandler)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Post("/auth/logout", handlers.LogoutHandler)
			r.Get("/auth/me", handlers.MeHandler)
			r.Put("/auth/me", handlers.UpdateProfileHandler)

			r.Post("/organizations", handlers.CreateOrganizationHandler)
			r.Get("/organizations/mine", handlers.MyOrganizationsHandler)
			r.Put("/organizations/{id}", handlers.UpdateOrganizationHandler)

			r.Post("/collections", handlers.CreateCollectionHandler)
			r.Get("/collections", handlers.FilterCollectionsHandler)
			r.Get("/collections/{id}", handlers.GetCollectionHandler)
			r.Put("/collections/{id}", handlers.UpdateCollectionHandler)
			r.Delete("/collections/{id}", handlers.DeleteCollectionHandler)
			r.Post("/collections/{id}/status", handlers.ChangeCollectionStatusHandler)
			r.Post("/collections/{id}/items", handlers.AddCollectionItemHandler)
			r.Delete("/collections/{id}/items/{itemId}", handlers.RemoveCollectionItemHandler)

			r.Post("/media", handlers.UploadItemImageHandler)
			r.Get("/media", handlers.GetMediaURLHandler)

			// Catalog and site management for verified operators and admins.
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(models.RoleAdmin, models.RoleRecycler, models.RoleBrand))

				r.Post("/categories", handlers.CreateCategoryHandler)
				r.Put("/categories/{id}", handlers.UpdateCategoryHandler)
				r.Delete("/categories/{id}", handlers.DeleteCategoryHandler)

				r.Post("/materials", handlers.CreateMaterialHandler)
				r.Put("/materials/{id}", handlers.UpdateMaterialHandler)
				r.Delete("/materials/{id}", handlers.DeleteMaterialHandler)
				r.Post("/materials/import", handlers.ImportMaterialsHandler)

				r.Post("/facilities", handlers.CreateFacilityHandler)
				r.Put("/facilities/{id}", handlers.UpdateFacilityHandler)
				r.Put("/facilities/{id}/materials", handlers.SetFacilityMaterialsHandler)
				r.Delete("/facilities/{id}", handlers.DeleteFacilityHandler)

				r.Post("/dropoffs", handlers.CreateDropoffHandler)
				r.Put("/dropoffs/{id}", handlers.UpdateDropoffHandler)
				r.Put("/dropoffs/{id}/materials", handlers.SetDropoffMaterialsHandler)
				r.Delete("/dropoffs/{id}", handlers.DeleteDropoffHandler)
			})

			// Admin-only surface.
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(models.RoleAdmin))

				r.Get("/admin/users", handlers.ListUsersHandler)
				r.Post("/admin/users", handlers.CreateUserHandler)
				r.Get("/admin/users/{id}", handlers.GetUserHandler)
				r.Delete("/admin/users/{id}", handlers.DeactivateUserHandler)

				r.Post("/admin/organizations/{id}/verify", handlers.VerifyOrganizationHandler)
				r.Post("/admin/organizations/{id}/reject", handlers.RejectOrganizationHandler)
				r.Delete("/admin/organizations/{id}", handlers.DeleteOrganizationHandler)

				r.Get("/admin/dashboard", handlers.GetDashboardMetricsHandler)
			})
		})
	})

	var handler http.Handler = r
	if cfg.MetricsEnabled {
		handler = appmetrics.InstrumentHandler(handler)
	}
	return handler
}
