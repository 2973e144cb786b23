package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-kanban-api/internal/application/board"
	"github.com/go-kanban-api/internal/application/invitation"
	"github.com/go-kanban-api/internal/application/notification"
	"github.com/go-kanban-api/internal/application/reconcile"
	"github.com/go-kanban-api/internal/application/session"
	"github.com/go-kanban-api/internal/application/user"
	"github.com/go-kanban-api/internal/config"
	"github.com/go-kanban-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-kanban-api/internal/infrastructure/jwt"
	s3infra "github.com/go-kanban-api/internal/infrastructure/s3"
	"github.com/go-kanban-api/internal/infrastructure/smtp"
	"github.com/go-kanban-api/internal/infrastructure/sns"
	"github.com/go-kanban-api/internal/transport/http/handler"
	appmiddleware "github.com/go-kanban-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	BoardRepo        *dynamo.BoardRepo
	ColumnRepo       *dynamo.ColumnRepo
	CardRepo         *dynamo.CardRepo
	NotificationRepo *dynamo.NotificationRepo
	InviteTokenRepo  *dynamo.InviteTokenRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	Events           sns.EventPublisher
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.ResolveIdentity(deps.JWTProvider))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	boardSvc := board.NewService(board.ServiceDeps{
		BoardRepo:   deps.BoardRepo,
		ColumnRepo:  deps.ColumnRepo,
		CardRepo:    deps.CardRepo,
		ObjectStore: deps.S3Store,
	})
	notifSvc := notification.NewService(deps.NotificationRepo)
	inviteSvc := invitation.NewService(invitation.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Membership:      boardSvc,
		InviteTokenRepo: deps.InviteTokenRepo,
		Notifications:   notifSvc,
		Mailer:          deps.Mailer,
		Events:          deps.Events,
		PublicBaseURL:   cfg.PublicBaseURL,
		TokenExpiry:     cfg.InviteTokenExpiry(),
		AllowDuplicates: cfg.AllowDuplicateNotifications,
	})
	reconcileSvc := reconcile.NewService(reconcile.ServiceDeps{
		Membership:       boardSvc,
		NotificationRepo: deps.NotificationRepo,
		AuditRepo:        deps.BoardRepo,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Redeemer: inviteSvc,
	})
	var signer session.TokenSigner
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}
	sessionSvc := session.NewService(deps.UserRepo, signer)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	boardH := handler.NewBoardHandler(boardSvc)
	inviteH := handler.NewInvitationHandler(inviteSvc)
	notifH := handler.NewNotificationHandler(notifSvc, reconcileSvc)
	repairH := handler.NewRepairHandler(reconcileSvc)

	requireVerified := appmiddleware.RequireVerified(cfg.TrustCookieIdentity)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/logout", sessionH.Logout)
		r.Get("/invite-tokens/{token}", inviteH.VerifyToken)

		// ── Identified routes (cookie is enough for reads) ───────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireIdentity)

			r.Get("/users/{id}", userH.Get)
			r.Get("/boards", boardH.List)
			r.Get("/boards/{id}", boardH.Get)
			r.Get("/boards/{id}/columns", boardH.ListColumns)
			r.Get("/boards/{id}/cards", boardH.ListCards)
			r.Get("/notifications", notifH.List)
			r.Get("/debug/boards", repairH.DebugBoards)
			r.Get("/debug/boards/{id}", repairH.AuditBoard)
		})

		// ── Verified routes (mutations) ──────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(requireVerified)

			r.Post("/boards", boardH.Create)
			r.Put("/boards/{id}", boardH.Update)
			r.Delete("/boards/{id}", boardH.Delete)
			r.Put("/boards/{id}/background", boardH.SetBackground)
			r.Post("/boards/{id}/columns", boardH.CreateColumn)
			r.Put("/boards/{id}/columns/{columnID}", boardH.UpdateColumn)
			r.Delete("/boards/{id}/columns/{columnID}", boardH.DeleteColumn)
			r.Post("/boards/{id}/cards", boardH.CreateCard)
			r.Put("/boards/{id}/cards/{cardID}", boardH.UpdateCard)
			r.Delete("/boards/{id}/cards/{cardID}", boardH.DeleteCard)

			r.With(sensitiveRL.Limit).Patch("/invite", inviteH.Invite)

			r.Patch("/notifications/read-all", notifH.ReadAll)
			r.Patch("/notifications/{id}", notifH.MarkRead)

			r.Post("/repair-membership", repairH.RepairMembership)
			r.Post("/repair-from-notification", repairH.RepairInvitation)
		})
	})

	return r
}
