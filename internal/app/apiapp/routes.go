package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rvconnect/backend/internal/config"
	authsvc "github.com/rvconnect/backend/internal/services/auth"
	chatsvc "github.com/rvconnect/backend/internal/services/chat"
	feedsvc "github.com/rvconnect/backend/internal/services/feed"
	gatesvc "github.com/rvconnect/backend/internal/services/gate"
	matchessvc "github.com/rvconnect/backend/internal/services/matches"
	mediasvc "github.com/rvconnect/backend/internal/services/media"
	profilessvc "github.com/rvconnect/backend/internal/services/profiles"
	swipessvc "github.com/rvconnect/backend/internal/services/swipes"
	"github.com/rvconnect/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ProfileService *profilessvc.Service
	GateService    *gatesvc.Service
	FeedService    *feedsvc.Service
	SwipeService   *swipessvc.Service
	MatchService   *matchessvc.Service
	ChatService    *chatsvc.Service
	MediaService   *mediasvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Config.App.FrontendBaseURL)
	gateHandler := handlers.NewGateHandler(deps.GateService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	photoHandler := handlers.NewPhotoHandler(deps.MediaService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	wsHandler := handlers.NewWSHandler(deps.AuthService, deps.ChatService, deps.Logger)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Get("/confirm/{token}", authHandler.Confirm)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/v1", func(r chi.Router) {
		// Websocket handshake authenticates via query token inside the handler.
		r.Get("/matches/{matchID}/ws", wsHandler.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Get("/gate", gateHandler.Resolve)
			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)
			r.Post("/profile/photos/{slot}", photoHandler.Upload)
			r.Get("/feed", feedHandler.List)
			r.Post("/swipes", swipeHandler.Swipe)
			r.Get("/matches", matchesHandler.List)
			r.Get("/matches/{matchID}", matchesHandler.Get)
			r.Get("/matches/{matchID}/messages", chatHandler.ListMessages)
			r.Post("/matches/{matchID}/messages", chatHandler.SendMessage)
		})
	})
}
