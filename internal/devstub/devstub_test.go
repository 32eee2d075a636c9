package devstub

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/api"
	"github.com/DMX-Projects/time4kids-sub001/internal/client/repo"
	"github.com/DMX-Projects/time4kids-sub001/internal/client/session"
	"github.com/DMX-Projects/time4kids-sub001/internal/shared/models"
)

// newStack brings up the stub behind httptest and wires a real client
// stack against it, the same way the CLI does.
func newStack(t *testing.T) (*api.Client, *session.Manager) {
	t.Helper()
	stub, err := New(Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, "")
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return client, session.NewManager(client, store, zap.NewNop())
}

func TestLoginNormalizesRole(t *testing.T) {
	_, mgr := newStack(t)

	user, err := mgr.Login(context.Background(), "admin@time4kids.local", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "Platform Admin", user.FullName)

	tokens, ok := mgr.Tokens()
	require.True(t, ok)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
}

func TestLoginRejected(t *testing.T) {
	_, mgr := newStack(t)

	_, err := mgr.Login(context.Background(), "admin@time4kids.local", "nope")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestAdminEventCRUD(t *testing.T) {
	_, mgr := newStack(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@time4kids.local", "admin123")
	require.NoError(t, err)

	events := repo.NewCollection[models.Event](mgr, "/events/")

	records, err := events.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	created, err := events.Add(ctx, models.Event{Title: "Open Day", Date: "2026-09-15"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Open Day", created.Title)

	created.Title = "Open Day (rescheduled)"
	updated, err := events.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Open Day (rescheduled)", updated.Title)

	records, err = events.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Open Day (rescheduled)", records[0].Title)

	require.NoError(t, events.Delete(ctx, created.ID))
	records, err = events.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRoleScoping(t *testing.T) {
	_, mgr := newStack(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "parent@time4kids.local", "parent123")
	require.NoError(t, err)

	_, err = mgr.AuthFetch(ctx, "GET", "/careers/", nil)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	// Franchise accounts can reach franchise-scoped collections but
	// not admin-only ones.
	_, mgr2 := newStack(t)
	_, err = mgr2.Login(ctx, "franchise@time4kids.local", "franchise123")
	require.NoError(t, err)

	_, err = mgr2.AuthFetch(ctx, "GET", "/events/", nil)
	require.NoError(t, err)
	_, err = mgr2.AuthFetch(ctx, "GET", "/franchises/", nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	_, mgr := newStack(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@time4kids.local", "admin123")
	require.NoError(t, err)
	before, ok := mgr.Tokens()
	require.True(t, ok)

	pair, ok := mgr.Refresh(ctx)
	require.True(t, ok)
	assert.NotEmpty(t, pair.Access)
	assert.Equal(t, before.Refresh, pair.Refresh)
}

func TestHydrateFromPersistedSession(t *testing.T) {
	stub, err := New(Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, "")
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := session.NewManager(client, session.NewStore(path), zap.NewNop())
	_, err = first.Login(ctx, "franchise@time4kids.local", "franchise123")
	require.NoError(t, err)

	second := session.NewManager(client, session.NewStore(path), zap.NewNop())
	second.Hydrate(ctx)
	assert.False(t, second.Loading())
	user, ok := second.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, models.RoleFranchise, user.Role)
}

func TestPublicEndpoints(t *testing.T) {
	_, mgr := newStack(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@time4kids.local", "admin123")
	require.NoError(t, err)
	careers := repo.NewCollection[models.Career](mgr, "/careers/")
	_, err = careers.Add(ctx, models.Career{Title: "Teacher", Location: "Pune"})
	require.NoError(t, err)

	// Public listing needs no token. Use a bare client on the same
	// base URL as the manager's.
	raw, err := mgr.AuthFetch(ctx, "GET", "/public/careers/", nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Teacher")

	_, err = mgr.AuthFetch(ctx, "GET", "/public/media/", nil)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestPublicEnquiryAnonymous(t *testing.T) {
	client, mgr := newStack(t)
	ctx := context.Background()

	raw, err := client.FetchJSON(ctx, "POST", "/public/enquiries/", models.Enquiry{
		Name:  "A Parent",
		Email: "someone@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "created_at")

	_, err = mgr.Login(ctx, "admin@time4kids.local", "admin123")
	require.NoError(t, err)
	enquiries := repo.NewCollection[models.Enquiry](mgr, "/enquiries/")
	records, err := enquiries.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A Parent", records[0].Name)
}

func TestMediaUpload(t *testing.T) {
	_, mgr := newStack(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@time4kids.local", "admin123")
	require.NoError(t, err)

	library := repo.NewMediaLibrary(mgr, "/media/")
	rec, err := library.Upload(ctx, "Sports Day", "photo", "sports.jpg", []byte("fake-image-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Sports Day", rec.Title)
	assert.Equal(t, "/media/files/sports.jpg", rec.URL)

	records, err := library.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
