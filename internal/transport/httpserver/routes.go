package httpserver

import (
	"net/http"
	"time"

	"giapha-go/internal/config"
	accountdomain "giapha-go/internal/domain/account"
	"giapha-go/internal/transport/httpserver/handler"
	"giapha-go/internal/transport/httpserver/middleware"
	"giapha-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const uploadOverhead = 1 << 20

func NewRouter(cfg config.Config, handlers *handler.Handlers, accounts middleware.Authenticator, metrics *middleware.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSOrigins))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	auth := middleware.NewAuth(accounts, log)
	editor := middleware.RequireRole(accountdomain.RoleEditor)
	admin := middleware.RequireRole(accountdomain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/login", handlers.Login)

		// Public reads; a valid token widens what news returns.
		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)

			r.Get("/tree", handlers.GetTree)
			r.Get("/tree/{id}", handlers.GetSubtree)

			r.Get("/members", handlers.ListMembers)
			r.Get("/members/{id}", handlers.GetMember)
			r.Get("/members/{id}/children", handlers.ListMemberChildren)

			r.Get("/memorials/{member_id}", handlers.GetMemorial)
			r.Post("/memorials/{member_id}/incense", handlers.LightIncense)
			r.Post("/memorials/{member_id}/condolences", handlers.AddCondolence)

			r.Get("/news", handlers.ListNews)
			r.Get("/news/{id}", handlers.GetNews)

			r.Get("/albums", handlers.ListAlbums)
			r.Get("/albums/{id}", handlers.GetAlbum)

			r.Get("/settings", handlers.GetSettings)
			r.Get("/settings/{key}", handlers.GetSetting)
			r.Get("/stats", handlers.GetStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Post("/auth/password", handlers.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(editor)

				r.Post("/members", handlers.CreateMember)
				r.Put("/members/{id}", handlers.UpdateMember)
				r.Delete("/members/{id}", handlers.DeleteMember)

				r.Post("/news", handlers.CreateNews)
				r.Put("/news/{id}", handlers.UpdateNews)
				r.Delete("/news/{id}", handlers.DeleteNews)

				r.Post("/albums", handlers.CreateAlbum)
				r.Put("/albums/{id}", handlers.UpdateAlbum)
				r.Delete("/albums/{id}", handlers.DeleteAlbum)
				r.Post("/albums/{id}/photos", handlers.AddPhoto)
				r.With(chimw.RequestSize(cfg.Storage.MaxUploadSize+uploadOverhead)).
					Post("/albums/{id}/photos/upload", handlers.UploadPhoto)
				r.Delete("/photos/{id}", handlers.DeletePhoto)
			})

			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Get("/members/export", handlers.ExportMembers)
				r.Delete("/memorials/condolences/{id}", handlers.HideCondolence)

				r.Get("/fund", handlers.ListFundEntries)
				r.Post("/fund", handlers.CreateFundEntry)
				r.Get("/fund/summary", handlers.FundSummary)
				r.Get("/fund/export", handlers.ExportFund)
				r.Get("/fund/{id}", handlers.GetFundEntry)
				r.Put("/fund/{id}", handlers.UpdateFundEntry)
				r.Delete("/fund/{id}", handlers.DeleteFundEntry)

				r.Put("/settings", handlers.PutSettings)

				r.Get("/accounts", handlers.ListAccounts)
				r.Post("/accounts", handlers.CreateAccount)
				r.Get("/accounts/{id}", handlers.GetAccount)
				r.Patch("/accounts/{id}", handlers.UpdateAccount)
				r.Post("/accounts/{id}/password", handlers.ResetAccountPassword)
			})
		})
	})

	return r
}
