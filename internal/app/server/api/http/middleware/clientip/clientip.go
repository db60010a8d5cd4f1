// Package clientip records the caller's address for audit entries.
//
// X-Forwarded-For and X-Real-IP are honoured only when the server is told it
// sits behind a reverse proxy that overwrites them. Otherwise any client could
// write its own audit address, so the peer address is used. The address feeds
// the audit trail only and is never an access-control input.
package clientip

import (
	"context"
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

type contextKey struct{}

// Middleware stores the client address in the request context. With
// trustProxy the first X-Forwarded-For hop wins, then X-Real-IP, then the
// peer address.
func Middleware(trustProxy bool) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ip := Peer(ctx.RemoteAddr())
		if trustProxy {
			ip = Resolve(ctx.Header("X-Forwarded-For"), ctx.Header("X-Real-IP"), ctx.RemoteAddr())
		}
		next(huma.WithContext(ctx, WithIP(ctx.Context(), ip)))
	}
}

// Resolve picks the address a trusted proxy reported, falling back to the peer.
func Resolve(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}

	return Peer(remoteAddr)
}

// Peer strips the port from a connection address.
func Peer(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns "" when the middleware did not run.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
