// Package session owns the authenticated session: who is logged in, with
// which token pair, persisted where, and the retry discipline that hides
// access-token expiry from callers.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/api"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

const (
	loginPath   = "/auth/login/"
	refreshPath = "/auth/refresh/"
	mePath      = "/auth/me/"
)

// ErrSessionExpired is returned by AuthFetch when the refresh token could
// not buy a new access token.
var ErrSessionExpired = errors.New("session expired, please login again")

// Manager is the single source of truth for the session. One Manager is
// constructed per process and passed by reference; it starts in the
// loading state until Hydrate has run.
type Manager struct {
	api   *api.Client
	store *Store
	log   *zap.Logger

	mu      sync.Mutex
	sess    *models.Session
	loading bool

	hydrateOnce  sync.Once
	refreshGroup singleflight.Group
}

func NewManager(client *api.Client, store *Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{api: client, store: store, log: logger, loading: true}
}

// Loading reports whether startup hydration has completed yet.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CurrentUser returns the authenticated user, if any.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return models.User{}, false
	}
	return m.sess.User, true
}

// Tokens returns the current token pair, if any.
func (m *Manager) Tokens() (models.TokenPair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return models.TokenPair{}, false
	}
	return m.sess.Tokens, true
}

// Hydrate restores the persisted session and revalidates it against the
// whoami endpoint. It runs at most once; the loading flag clears exactly
// once on completion regardless of outcome.
func (m *Manager) Hydrate(ctx context.Context) {
	m.hydrateOnce.Do(func() {
		defer func() {
			m.mu.Lock()
			m.loading = false
			m.mu.Unlock()
		}()
		sess, err := m.store.Load()
		if err != nil {
			m.log.Warn("could not read stored session", zap.Error(err))
			return
		}
		if sess == nil {
			return
		}
		m.mu.Lock()
		m.sess = sess
		m.mu.Unlock()
		m.validate(ctx)
	})
}

// validate refreshes the stored profile from the whoami endpoint. A 401
// goes through one token refresh and retry inside authDo; any other
// failure leaves the last known session in place.
func (m *Manager) validate(ctx context.Context) {
	raw, err := m.authDo(ctx, http.MethodGet, mePath, "", nil, true)
	if err != nil {
		m.log.Warn("session validation failed", zap.Error(err))
		return
	}
	if raw == nil {
		return
	}
	var profile models.User
	if err := json.Unmarshal(raw, &profile); err != nil {
		return
	}
	m.mu.Lock()
	if m.sess != nil {
		m.sess.User.Merge(profile)
		m.persistLocked()
	}
	m.mu.Unlock()
}

// Login exchanges credentials for a token pair and user. Failures come
// back as normalized API errors; the caller decides how to show them.
func (m *Manager) Login(ctx context.Context, identifier, password string) (models.User, error) {
	raw, err := m.api.FetchJSON(ctx, http.MethodPost, loginPath, map[string]string{
		"email":    identifier,
		"password": password,
	})
	if err != nil {
		return models.User{}, err
	}
	var out struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		User    models.User `json:"user"`
	}
	if raw == nil {
		return models.User{}, errors.New("login response was empty")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.User{}, err
	}
	if out.Access == "" || out.Refresh == "" {
		return models.User{}, errors.New("login response missing tokens")
	}
	m.mu.Lock()
	m.sess = &models.Session{
		User:   out.User,
		Tokens: models.TokenPair{Access: out.Access, Refresh: out.Refresh},
	}
	m.persistLocked()
	m.mu.Unlock()
	m.log.Info("logged in", zap.String("email", out.User.Email), zap.String("role", string(out.User.Role)))
	return out.User, nil
}

// Logout clears memory and storage. Synchronous, idempotent, no network.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.sess = nil
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.log.Warn("could not clear stored session", zap.Error(err))
	}
}

// Refresh exchanges the refresh token for a new access token, keeping the
// refresh token itself. It never returns an error: failure is reported as
// ok=false so the silent hydration path is not forced into error
// handling. A refresh the server definitively rejects ends the session;
// a transport failure leaves it alone. Concurrent callers share a single
// in-flight exchange.
func (m *Manager) Refresh(ctx context.Context) (models.TokenPair, bool) {
	m.mu.Lock()
	sess := m.sess
	m.mu.Unlock()
	if sess == nil {
		return models.TokenPair{}, false
	}
	refresh := sess.Tokens.Refresh
	v, err, _ := m.refreshGroup.Do(refresh, func() (any, error) {
		return m.exchangeRefresh(ctx, refresh)
	})
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			m.log.Info("refresh token rejected, logging out", zap.Int("status", apiErr.Status))
			m.Logout()
		} else {
			m.log.Warn("token refresh failed", zap.Error(err))
		}
		return models.TokenPair{}, false
	}
	return v.(models.TokenPair), true
}

func (m *Manager) exchangeRefresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	raw, err := m.api.FetchJSON(ctx, http.MethodPost, refreshPath, map[string]string{"refresh": refreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}
	var out struct {
		Access string `json:"access"`
	}
	if raw == nil || json.Unmarshal(raw, &out) != nil || out.Access == "" {
		return models.TokenPair{}, errors.New("refresh response missing access token")
	}
	pair := models.TokenPair{Access: out.Access, Refresh: refreshToken}
	m.mu.Lock()
	if m.sess != nil {
		m.sess.Tokens = pair
		m.persistLocked()
	}
	m.mu.Unlock()
	return pair, nil
}

// AuthFetch is the authenticated request primitive. It attaches the
// bearer access token, retries exactly once through a token refresh on
// 401, and returns the response body as raw JSON (nil when empty or
// unparseable).
func (m *Manager) AuthFetch(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = b
	}
	return m.authDo(ctx, method, path, "", payload, true)
}

// AuthUpload posts a multipart form through the same bearer/refresh
// discipline as AuthFetch.
func (m *Manager) AuthUpload(ctx context.Context, path string, fields map[string]string, fileField, filename string, content []byte) (json.RawMessage, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	fw, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return m.authDo(ctx, http.MethodPost, path, w.FormDataContentType(), buf.Bytes(), true)
}

func (m *Manager) authDo(ctx context.Context, method, path, contentType string, payload []byte, retry bool) (json.RawMessage, error) {
	resp, err := m.send(ctx, method, path, contentType, payload, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && retry {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		pair, ok := m.Refresh(ctx)
		if !ok {
			return nil, ErrSessionExpired
		}
		// Rebuild with the fresh access token; never retried again.
		resp, err = m.send(ctx, method, path, contentType, payload, pair.Access)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, api.ToAPIError(resp)
	}
	return api.DecodeLenient(resp.Body), nil
}

func (m *Manager) send(ctx context.Context, method, path, contentType string, payload []byte, accessOverride string) (*http.Response, error) {
	header := api.JSONHeaders()
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	access := accessOverride
	if access == "" {
		if pair, ok := m.Tokens(); ok {
			access = pair.Access
		}
	}
	if access != "" {
		header.Set("Authorization", "Bearer "+access)
	}
	return m.api.Do(ctx, method, path, header, payload)
}

// persistLocked writes the current session to storage. Callers hold m.mu
// and m.sess is non-nil.
func (m *Manager) persistLocked() {
	if err := m.store.Save(*m.sess); err != nil {
		m.log.Warn("could not persist session", zap.Error(err))
	}
}
