// Package api exposes the vault over HTTP.
//
//	GET    /api/v1/health
//	POST   /user/register, /user/login
//	GET    /api/credentials               list
//	POST   /api/credentials               add
//	DELETE /api/credentials               delete the whole vault
//	GET    /api/credentials/{id}          metadata
//	PUT    /api/credentials/{id}          update
//	DELETE /api/credentials/{id}          delete
//	POST   /api/credentials/{id}/password reveal the password
//	POST   /api/credentials/{id}/share    direct copy to another user
//	GET    /api/shares                    pending invitations and accepted copies
//	POST   /api/shares                    create invitation
//	POST   /api/shares/{id}/accept|reject answer an invitation
//	GET    /api/audit                     own audit trail
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
	auditAPI "passvault/internal/app/server/api/http/auditlog"
	credentialAPI "passvault/internal/app/server/api/http/credential"
	healthAPI "passvault/internal/app/server/api/http/health"
	"passvault/internal/app/server/api/http/middleware"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/api/http/middleware/clientip"
	"passvault/internal/app/server/api/http/middleware/logger"
	sharingAPI "passvault/internal/app/server/api/http/sharing"
	userAPI "passvault/internal/app/server/api/http/user"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/session"
	"passvault/internal/domain/sharing"
	"passvault/internal/domain/user"
)

// Services are the domain entry points the HTTP layer drives.
type Services struct {
	Health      healthAPI.Pinger
	Users       user.Servicer
	Sessions    session.Servicer
	Credentials credential.Servicer
	Sharing     sharing.Servicer
	Audit       audit.Servicer
}

// Options tune the HTTP layer independently of the services.
type Options struct {
	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP set the audit address.
	TrustProxyHeaders bool
}

type Handlers struct {
	Health     *healthAPI.Handler
	User       *userAPI.Handler
	Credential *credentialAPI.Handler
	Sharing    *sharingAPI.Handler
	Audit      *auditAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(svc Services, opts Options, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("passvault API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(svc, opts, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Credential.SetupRoutes(API)
	h.Sharing.SetupRoutes(API)
	h.Audit.SetupRoutes(API)

	return mux
}

func handlers(svc Services, opts Options, log *slog.Logger) *Handlers {
	authMW := auth.New(svc.Sessions, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(svc.Health, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(svc.Users, svc.Sessions, log, middlewares.GetAllAndClear())

	protected := func() huma.Middlewares {
		middlewares.Add(loggerMW.Middleware())
		middlewares.Add(clientip.Middleware(opts.TrustProxyHeaders))
		middlewares.Add(authMW.Middleware())
		return middlewares.GetAllAndClear()
	}

	return &Handlers{
		Health:     healthHandler,
		User:       userHandler,
		Credential: credentialAPI.NewHandler(svc.Credentials, log, protected()),
		Sharing:    sharingAPI.NewHandler(svc.Sharing, log, protected()),
		Audit:      auditAPI.NewHandler(svc.Audit, log, protected()),
	}
}
