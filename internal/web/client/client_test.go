package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	c.SetTimeout(200 * time.Millisecond)
	return c
}

func TestLoginURL_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login/google", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"auth_url":"https://accounts.google.com/o/oauth2/auth?foo=bar"}`))
	}))

	u, err := c.LoginURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?foo=bar", u)
}

func TestLoginURL_Timeout(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
	}))

	_, err := c.LoginURL(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLoginURL_HTTPErrorPropagatesStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := c.LoginURL(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestLoginURL_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	c := New(srv.URL)

	_, err := c.LoginURL(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoginURL_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<!doctype html>"},
		{name: "empty auth_url", body: `{"auth_url":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.LoginURL(context.Background())
			assert.ErrorIs(t, err, ErrBadPayload)
		})
	}
}

func TestVerify_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "sid-1", req["session_id"])

		// the record arrives double-encoded
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":"{\"email\":\"a@example.com\",\"name\":\"Alice\",\"source\":\"google\"}"}`))
	}))

	user := c.Verify(context.Background(), "sid-1")
	require.NotNil(t, user)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "google", user.Source)
}

func TestVerify_FailuresCollapseToNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"Invalid session"}`, http.StatusUnauthorized)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "outer payload not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "inner payload not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"user":"not json"}`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(time.Second)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			assert.Nil(t, c.Verify(context.Background(), "sid-1"))
		})
	}
}

func TestLogout_Success(t *testing.T) {
	var gotSessionID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logout", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotSessionID = req["session_id"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Logged out"}`))
	}))

	require.NoError(t, c.Logout(context.Background(), "sid-1"))
	assert.Equal(t, "sid-1", gotSessionID)
}

func TestLogout_ReportsFailures(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := c.Logout(context.Background(), "sid-1")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}
