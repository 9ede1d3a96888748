package rest

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware gates POST /solve behind a single shared bearer key, kept
// at rest as a bcrypt hash (NUMBO_API_KEY_HASH) rather than plaintext,
// grounded on the teacher's own auth middleware shape
// (rest.NewAuthMiddleware) but trimmed from its multi-provider OIDC/JWT
// user system down to the one secret Numbo's single-tenant server needs.
type AuthMiddleware struct {
	apiKeyHash []byte
	jwtKey     []byte
}

// NewAuthMiddleware builds the middleware from the configured bcrypt hash.
// An empty hash disables auth entirely (local/dev use).
func NewAuthMiddleware(apiKeyHash string) *AuthMiddleware {
	m := &AuthMiddleware{}
	if apiKeyHash != "" {
		m.apiKeyHash = []byte(apiKeyHash)
		m.jwtKey = []byte(apiKeyHash)
	}
	return m
}

// Enabled reports whether a key was configured.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.apiKeyHash) > 0
}

// RequireAPIKey checks the Authorization: Bearer <key> header against the
// configured bcrypt hash.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || key == "" {
			respondAPIError(c, ErrUnauthorized)
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword(m.apiKeyHash, []byte(key)); err != nil {
			respondAPIError(c, ErrUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}

const wsTicketTTL = 5 * time.Minute

// wsClaims is the payload of the short-lived ticket a client exchanges for
// /solve's run_id in order to authenticate the websocket upgrade, which
// (unlike a normal fetch) can't carry an Authorization header from a
// browser.
type wsClaims struct {
	RunID string `json:"run_id"`
	jwt.RegisteredClaims
}

// IssueWSTicket signs a short-lived HS256 token scoping one run_id, or
// returns an empty string when auth is disabled (no key configured).
func (m *AuthMiddleware) IssueWSTicket(runID string) (string, error) {
	if !m.Enabled() {
		return "", nil
	}
	claims := wsClaims{
		RunID: runID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(wsTicketTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.jwtKey)
}

// RequireWSTicket validates the ?token= query parameter against runID, or
// passes through when auth is disabled.
func (m *AuthMiddleware) RequireWSTicket(c *gin.Context, runID string) bool {
	if !m.Enabled() {
		return true
	}
	raw := c.Query("token")
	if raw == "" {
		respondAPIError(c, ErrUnauthorized)
		return false
	}
	claims := &wsClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.jwtKey, nil
	})
	if err != nil || !token.Valid || claims.RunID != runID {
		respondAPIError(c, ErrUnauthorized)
		return false
	}
	return true
}
