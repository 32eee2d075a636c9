package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLJoin(t *testing.T) {
	c := New("http://api.local/", "")
	assert.Equal(t, "http://api.local/events/", c.URL("/events/"))
	assert.Equal(t, "http://api.local/events/", c.URL("events/"))
}

func TestMediaURL(t *testing.T) {
	c := New("http://api.local", "http://cdn.local")
	assert.Equal(t, "http://cdn.local/img/a.png", c.MediaURL("img/a.png"))
	assert.Equal(t, "http://cdn.local/img/a.png", c.MediaURL("/img/a.png"))
	assert.Equal(t, "https://elsewhere/x.png", c.MediaURL("https://elsewhere/x.png"))
	assert.Equal(t, "", c.MediaURL(""))
}

func TestMediaURLFallsBackToBase(t *testing.T) {
	c := New("http://api.local", "")
	assert.Equal(t, "http://api.local/img/a.png", c.MediaURL("img/a.png"))
}

func TestJSONHeaders(t *testing.T) {
	h := JSONHeaders()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "application/json", h.Get("Accept"))
}

func errResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestToAPIError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", 400, `{"message":"bad input"}`, "bad input"},
		{"detail field", 401, `{"detail":"no creds"}`, "no creds"},
		{"error field", 403, `{"error":"forbidden"}`, "forbidden"},
		{"not json", 500, `<html>boom</html>`, "request failed"},
		{"empty body", 502, ``, "request failed"},
		{"json without known keys", 422, `{"fields":["x"]}`, "request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ToAPIError(errResponse(tc.status, tc.body))
			assert.Equal(t, tc.status, err.Status)
			assert.Equal(t, tc.message, err.Message)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok/":
			w.Write([]byte(`{"id":"1"}`))
		case "/empty/":
			w.WriteHeader(http.StatusNoContent)
		case "/garbage/":
			w.Write([]byte("not json"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"missing"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx := context.Background()

	raw, err := c.FetchJSON(ctx, http.MethodGet, "/ok/", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(raw))

	raw, err = c.FetchJSON(ctx, http.MethodGet, "/empty/", nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	raw, err = c.FetchJSON(ctx, http.MethodGet, "/garbage/", nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	_, err = c.FetchJSON(ctx, http.MethodGet, "/nope/", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "missing", apiErr.Message)
}

func TestFetchJSONCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, "").FetchJSON(ctx, http.MethodGet, "/slow/", nil)
	require.Error(t, err)
}
