// Package auth consumes the external identity provider. This service never
// verifies credentials itself; it exchanges a bearer token for a principal.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleAuthority = "authority"
)

// Principal identifies an authenticated caller.
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

var ErrUnauthenticated = errors.New("invalid or missing credentials")

// Provider authenticates a bearer token with the identity service.
type Provider interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// HTTPProvider calls the external identity service's verification endpoint.
type HTTPProvider struct {
	endpoint string
	http     *http.Client
}

func NewHTTPProvider(endpoint string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	PrincipalID string `json:"principal_id"`
	Role        string `json:"role"`
	Error       string `json:"error,omitempty"`
}

func (p *HTTPProvider) Authenticate(ctx context.Context, token string) (Principal, error) {
	if p.endpoint == "" {
		return Principal{}, errors.New("identity endpoint not configured")
	}

	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Principal{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Principal{}, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return Principal{}, fmt.Errorf("identity service returned %d", resp.StatusCode)
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Principal{}, fmt.Errorf("decode identity response: %w", err)
	}
	if payload.Error != "" {
		return Principal{}, ErrUnauthenticated
	}

	id, err := primitive.ObjectIDFromHex(payload.PrincipalID)
	if err != nil {
		return Principal{}, fmt.Errorf("identity service returned bad principal id: %w", err)
	}
	if payload.Role != RoleUser && payload.Role != RoleAuthority {
		return Principal{}, fmt.Errorf("identity service returned unknown role %q", payload.Role)
	}
	return Principal{ID: id, Role: payload.Role}, nil
}

const localsKey = "principal"

// Middleware authenticates the bearer token and stashes the principal in the
// request locals. requireRole narrows which role may pass; empty allows both.
func Middleware(provider Provider, requireRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "missing bearer token"})
		}
		token := strings.TrimPrefix(header, "Bearer ")

		principal, err := provider.Authenticate(c.Context(), token)
		if errors.Is(err, ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "invalid credentials"})
		}
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"ok": false, "error": "identity provider unavailable"})
		}
		if requireRole != "" && principal.Role != requireRole {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"ok": false, "error": "wrong role for this endpoint"})
		}

		c.Locals(localsKey, principal)
		return c.Next()
	}
}

// PrincipalFrom pulls the authenticated principal a Middleware stored.
func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(localsKey).(Principal)
	return p, ok
}
