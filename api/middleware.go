package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/models"
)

const (
	extOrganizationID = "organizationId"
	extExpiresAt      = "exp"
)

var errTokenExpired = errors.New("token expired")

// Claims are the claims of an access token issued by the identity service
type Claims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies bearer access tokens. Verified tokens are cached by go-guardian
// so a token is parsed once per cache ttl.
type Auth struct {
	secret        []byte
	authenticator auth.Authenticator
	now           func() time.Time
}

// NewAuth sets up the bearer strategy for tokens signed with secret
func NewAuth(secret string, cacheTTL time.Duration) *Auth {
	a := &Auth{secret: []byte(secret), now: time.Now}

	cache := store.NewFIFO(context.Background(), cacheTTL)
	a.authenticator = auth.New()
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(a.verifyToken, cache))
	return a
}

// Middleware authenticates the request and stores the Actor in its context
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := a.authenticator.Authenticate(r)
		if err == nil {
			err = a.checkExpiry(info)
		}
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL.Path,
				"error", err)
			config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, err)
			return
		}

		actor := Actor{
			UserID: info.ID(),
			Role:   models.Role(first(info.Groups())),
		}
		actor.OrganizationID = first(info.Extensions()[extOrganizationID])
		zap.S().Debugw("authenticated", "user", actor.UserID, "role", actor.Role)

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// verifyToken checks the HS256 signature and claims of an access token
func (a *Auth) verifyToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	ext := map[string][]string{
		extExpiresAt: {strconv.FormatInt(claims.ExpiresAt.Unix(), 10)},
	}
	if claims.OrganizationID != "" {
		ext[extOrganizationID] = []string{claims.OrganizationID}
	}
	return auth.NewDefaultUser(claims.Subject, claims.Subject, []string{string(role)}, ext), nil
}

// checkExpiry rejects cached tokens that expired after they were verified
func (a *Auth) checkExpiry(info auth.Info) error {
	exp, err := strconv.ParseInt(first(info.Extensions()[extExpiresAt]), 10, 64)
	if err != nil {
		return err
	}
	if !a.now().Before(time.Unix(exp, 0)) {
		return errTokenExpired
	}
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
