package devstub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/DMX-Projects/time4kids-sub001/internal/shared/passhash"
)

type contextKey string

const accountContextKey contextKey = "account"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(body.Email))]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	match, err := passhash.Verify(acc.PasswordHash, body.Password)
	if err != nil || !match {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	access, err := s.issueToken(acc, "access", s.opts.AccessTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	refresh, err := s.issueToken(acc, "refresh", s.opts.RefreshTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	s.log.Info("login", zap.String("email", acc.Email), zap.String("role", acc.Role))
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    accountPayload(acc),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, req *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	acc, err := s.parseToken(body.Refresh, "refresh")
	if err != nil {
		writeError(w, http.StatusUnauthorized, "refresh token invalid or expired")
		return
	}
	access, err := s.issueToken(acc, "access", s.opts.AccessTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleMe(w http.ResponseWriter, req *http.Request) {
	acc := accountFrom(req.Context())
	writeJSON(w, http.StatusOK, accountPayload(acc))
}

func accountPayload(acc account) map[string]any {
	return map[string]any{
		"id":        acc.ID,
		"email":     acc.Email,
		"role":      acc.Role,
		"full_name": acc.FullName,
	}
}

func (s *Server) issueToken(acc account, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  acc.ID,
		"role": acc.Role,
		"type": tokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.opts.JWTSecret))
}

func (s *Server) parseToken(tokenString, wantType string) (account, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return account{}, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return account{}, errors.New("invalid claims")
	}
	if t, _ := claims["type"].(string); t != wantType {
		return account{}, errors.New("wrong token type")
	}
	sub, _ := claims["sub"].(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == sub {
			return acc, nil
		}
	}
	return account{}, errors.New("unknown account")
}

// requireAuth validates the bearer access token and, when roles are
// given, rejects accounts outside the set with 403.
func (s *Server) requireAuth(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			authz := req.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			acc, err := s.parseToken(strings.TrimPrefix(authz, "Bearer "), "access")
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if len(allowed) > 0 && !allowed[acc.Role] {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			ctx := context.WithValue(req.Context(), accountContextKey, acc)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func accountFrom(ctx context.Context) account {
	acc, _ := ctx.Value(accountContextKey).(account)
	return acc
}
