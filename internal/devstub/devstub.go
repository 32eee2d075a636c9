// Package devstub is an in-memory stand-in for the remote time4kids
// platform API, used for local development and integration tests. It
// mimics the endpoints and error shapes the client depends on; it is not
// the production API.
package devstub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DMX-Projects/time4kids-sub001/internal/shared/passhash"
)

type Options struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Logger     *zap.Logger
}

type account struct {
	ID           string
	Email        string
	PasswordHash string
	// Role is kept in the backend's free-text form so clients must
	// normalize it.
	Role     string
	FullName string
}

// Server holds all stub state behind one mutex. Collections are ordered
// slices of loosely-typed records so every entity shares the same CRUD
// handlers.
type Server struct {
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	accounts map[string]account
	data     map[string][]map[string]any
}

var collections = []string{"careers", "events", "grades", "parents", "franchises", "updates", "media", "enquiries"}

var publicCollections = map[string]bool{
	"careers":    true,
	"events":     true,
	"updates":    true,
	"franchises": true,
}

// SeedAccounts are the development logins, password per entry.
var SeedAccounts = []struct {
	Email    string
	Password string
	Role     string
	FullName string
}{
	{"admin@time4kids.local", "admin123", "ADMIN", "Platform Admin"},
	{"franchise@time4kids.local", "franchise123", "FRANCHISE", "Franchise Owner"},
	{"parent@time4kids.local", "parent123", "PARENT", "Demo Parent"},
}

func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev-secret-change"
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		opts:     opts,
		log:      opts.Logger,
		accounts: make(map[string]account),
		data:     make(map[string][]map[string]any),
	}
	for _, c := range collections {
		s.data[c] = []map[string]any{}
	}
	for _, seed := range SeedAccounts {
		hash, err := passhash.Hash(seed.Password)
		if err != nil {
			return nil, err
		}
		s.accounts[seed.Email] = account{
			ID:           uuid.NewString(),
			Email:        seed.Email,
			PasswordHash: hash,
			Role:         seed.Role,
			FullName:     seed.FullName,
		}
	}
	return s, nil
}

// Handler returns the stub's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/login/", s.handleLogin)
	r.Post("/auth/refresh/", s.handleRefresh)
	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth())
		pr.Get("/auth/me/", s.handleMe)
	})

	s.mountCollection(r, "careers", "ADMIN")
	s.mountCollection(r, "franchises", "ADMIN")
	s.mountCollection(r, "events", "ADMIN", "FRANCHISE")
	s.mountCollection(r, "grades", "ADMIN", "FRANCHISE")
	s.mountCollection(r, "parents", "ADMIN", "FRANCHISE")
	s.mountCollection(r, "updates", "ADMIN", "FRANCHISE")
	s.mountCollection(r, "enquiries", "ADMIN", "FRANCHISE")
	s.mountMedia(r, "ADMIN", "FRANCHISE")

	r.Get("/public/{collection}/", s.handlePublicList)
	r.Post("/public/enquiries/", s.handlePublicEnquiry)

	return r
}

func (s *Server) mountCollection(r chi.Router, name string, roles ...string) {
	base := "/" + name + "/"
	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth(roles...))
		pr.Get(base, s.handleList(name))
		pr.Post(base, s.handleCreate(name))
		pr.Put(base+"{id}/", s.handleUpdate(name))
		pr.Patch(base+"{id}/", s.handleUpdate(name))
		pr.Delete(base+"{id}/", s.handleDelete(name))
	})
}

func (s *Server) mountMedia(r chi.Router, roles ...string) {
	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth(roles...))
		pr.Get("/media/", s.handleList("media"))
		pr.Post("/media/", s.handleMediaUpload)
		pr.Delete("/media/{id}/", s.handleDelete("media"))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
