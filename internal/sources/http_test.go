package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPSource_FetchWithCacheBuster(t *testing.T) {
	var gotPath, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("v")
		_, _ = w.Write([]byte(`{"2025-01-10": {"vacancy": 5}}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", 0, time.Second, quietLogger())
	src.now = func() time.Time { return time.UnixMilli(1735689600000) }

	data, err := src.Fetch(context.Background(), "vacancy_price_cache.json")

	require.NoError(t, err)
	require.JSONEq(t, `{"2025-01-10": {"vacancy": 5}}`, string(data))
	require.Equal(t, "/vacancy_price_cache.json", gotPath)
	require.Equal(t, "1735689600000", gotVersion)
}

func TestHTTPSource_NestedPath(t *testing.T) {
	var gotPath, gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRaw = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 0, time.Second, quietLogger()).Fetch(context.Background(), "data/2p cache.json")

	require.NoError(t, err)
	require.Equal(t, "/data/2p cache.json", gotPath)
	require.Equal(t, "/data/2p%20cache.json", gotRaw)
}

func TestHTTPSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, 2, time.Second, quietLogger()).Fetch(context.Background(), "event_data.json")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	data, err := NewHTTPSource(srv.URL, 2, time.Second, quietLogger()).Fetch(context.Background(), "historical_data.json")

	require.NoError(t, err)
	require.Equal(t, "{}", string(data))
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPSource_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, 1, time.Second, quietLogger())
	_, err := src.Fetch(context.Background(), "vacancy_price_cache.json")
	require.Error(t, err)

	b, err := NewLoader(src, 5*time.Second, quietLogger()).Load(context.Background(), Files{Current: "vacancy_price_cache.json"})
	require.NoError(t, err)
	require.Empty(t, b.Current)
}
