package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	t.Run("success with basic auth", func(t *testing.T) {
		var user, pass string
		var ok bool
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok = r.BasicAuth()
			w.Header().Set("Content-Type", "audio/ogg")
			_, _ = w.Write([]byte("OggS-voice"))
		}))
		defer ts.Close()

		body, ct, err := Download(context.Background(), ts.Client(), ts.URL+"/Media/ME1", BasicAuth{User: "AC1", Password: "tok"}, 0)
		require.NoError(t, err)
		assert.Equal(t, []byte("OggS-voice"), body)
		assert.Equal(t, "audio/ogg", ct)
		assert.True(t, ok)
		assert.Equal(t, "AC1", user)
		assert.Equal(t, "tok", pass)
	})

	t.Run("no auth header when user empty", func(t *testing.T) {
		var hasAuth bool
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAuth = r.Header.Get("Authorization") != ""
		}))
		defer ts.Close()

		_, _, err := Download(context.Background(), nil, ts.URL, BasicAuth{}, 0)
		require.NoError(t, err)
		assert.False(t, hasAuth)
	})

	t.Run("non-2xx returns error with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("denied"))
		}))
		defer ts.Close()

		_, _, err := Download(context.Background(), ts.Client(), ts.URL, BasicAuth{}, 0)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "403") && strings.Contains(err.Error(), "denied"), err.Error())
	})

	t.Run("too large", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 11)))
		}))
		defer ts.Close()

		_, _, err := Download(context.Background(), ts.Client(), ts.URL, BasicAuth{}, 10)
		assert.True(t, errors.Is(err, ErrTooLarge))
	})

	t.Run("exactly at limit", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 10)))
		}))
		defer ts.Close()

		body, _, err := Download(context.Background(), ts.Client(), ts.URL, BasicAuth{}, 10)
		require.NoError(t, err)
		assert.Len(t, body, 10)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := Download(ctx, ts.Client(), ts.URL, BasicAuth{}, 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad url", func(t *testing.T) {
		_, _, err := Download(context.Background(), nil, "://bad", BasicAuth{}, 0)
		require.Error(t, err)
	})
}
