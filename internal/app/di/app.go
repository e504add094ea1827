package di

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"heartlink/internal/api"
	"heartlink/internal/app/router"
	authhandler "heartlink/internal/feature/auth/transport/handler"
	authusecase "heartlink/internal/feature/auth/usecase"
	matchhandler "heartlink/internal/feature/match/transport/handler"
	matchusecase "heartlink/internal/feature/match/usecase"
	messaginghandler "heartlink/internal/feature/messaging/transport/handler"
	messagingusecase "heartlink/internal/feature/messaging/usecase"
	notificationusecase "heartlink/internal/feature/notification/usecase"
	profilehandler "heartlink/internal/feature/profile/transport/handler"
	profileusecase "heartlink/internal/feature/profile/usecase"
	"heartlink/internal/platform/config"
	jwtmw "heartlink/internal/platform/jwt"
	"heartlink/internal/platform/metrics"
)

// App is the fully wired API.
type App struct {
	Router     *gin.Engine
	Dispatcher *notificationusecase.Dispatcher

	stores         *Stores
	closeModerator func() error
}

// NewApp connects every backend named in cfg and builds the router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := api.RegisterValidators(); err != nil {
		return nil, err
	}

	stores, err := NewStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	dispatcher, err := NewDispatcher(cfg, m)
	if err != nil {
		_ = stores.Close(ctx)
		return nil, err
	}
	pictures, err := NewPictureStore(ctx, cfg)
	if err != nil {
		_ = dispatcher.Close(ctx)
		_ = stores.Close(ctx)
		return nil, err
	}
	moderator, closeModerator, err := NewModerator(ctx, cfg)
	if err != nil {
		_ = dispatcher.Close(ctx)
		_ = stores.Close(ctx)
		return nil, err
	}

	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration)

	// Usecase
	authUC := authusecase.NewAuthUsecase(stores.Users, tokens, dispatcher)
	profileUC := profileusecase.NewProfileUsecase(stores.Users, pictures, moderator)
	matchUC := matchusecase.NewMatchUsecase(stores.Users, stores.Matches, dispatcher)
	messagingUC := messagingusecase.NewMessagingUsecase(stores.Messages, stores.Matches, stores.Users, dispatcher)

	r := router.NewRouter(router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		Profile:   profilehandler.NewProfileHandler(profileUC),
		Match:     matchhandler.NewMatchHandler(matchUC),
		Messaging: messaginghandler.NewMessagingHandler(messagingUC),
	}, router.Deps{
		Tokens:      tokens,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		Stores:      stores.Pingers,
	})

	return &App{
		Router:         r,
		Dispatcher:     dispatcher,
		stores:         stores,
		closeModerator: closeModerator,
	}, nil
}

// Close drains pending notifications, then closes every connection.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Dispatcher.Close(ctx),
		a.closeModerator(),
		a.stores.Close(ctx),
	)
}
