package clientip

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		remoteAddr   string
		want         string
	}{
		{name: "peer address", remoteAddr: "10.0.0.7:51234", want: "10.0.0.7"},
		{name: "ipv6 peer", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "peer without port", remoteAddr: "10.0.0.7", want: "10.0.0.7"},
		{name: "real ip header", realIP: "203.0.113.9", remoteAddr: "10.0.0.7:1", want: "203.0.113.9"},
		{name: "first forwarded hop", forwardedFor: "198.51.100.1, 10.0.0.1", realIP: "203.0.113.9", remoteAddr: "10.0.0.7:1", want: "198.51.100.1"},
		{name: "blank forwarded header", forwardedFor: " ,10.0.0.1", remoteAddr: "10.0.0.7:1", want: "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.forwardedFor, tt.realIP, tt.remoteAddr))
		})
	}
}

type ipOutput struct {
	Body struct {
		IP string `json:"ip"`
	}
}

func TestMiddleware_ProxyTrust(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		want       string
	}{
		// httptest requests come from 192.0.2.1:1234
		{name: "headers ignored by default", trustProxy: false, want: "192.0.2.1"},
		{name: "headers honoured behind a proxy", trustProxy: true, want: "198.51.100.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, api := humatest.New(t)
			huma.Register(api, huma.Operation{
				OperationID: "ip",
				Method:      http.MethodGet,
				Path:        "/ip",
				Middlewares: huma.Middlewares{Middleware(tt.trustProxy)},
			}, func(ctx context.Context, _ *struct{}) (*ipOutput, error) {
				out := &ipOutput{}
				out.Body.IP = FromContext(ctx)
				return out, nil
			})

			resp := api.Get("/ip", "X-Forwarded-For: 198.51.100.1", "X-Real-IP: 203.0.113.9")
			assert.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				IP string `json:"ip"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.IP)
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
	assert.Equal(t, "10.0.0.1", FromContext(WithIP(context.Background(), "10.0.0.1")))
}
