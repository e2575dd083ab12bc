//go:build integration

package rod_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the rendered team grid", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<div id="team">Loading...</div>
<script>
document.getElementById('team').innerHTML =
  '<div class="team-member"><h3>Jane Doe</h3><p>VP Marketing</p></div>';
</script>
</body>
</html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, `<div class="team-member"><h3>Jane Doe</h3>`)
		assert.NotContains(t, html, "Loading...")
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.Fetch(ctx, "http://127.0.0.1:1")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("times out on a slow page", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), srv.URL)

		var fe *roster.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, srv.URL, fe.URL)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, roster.EFETCH, roster.ErrorCode(err))
	})

	t.Run("relaunches the browser after the page budget", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		first := fetcher.LauncherPID()

		_, err = fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)

		assert.NotEqual(t, first, fetcher.LauncherPID())
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())

	_, err = fetcher.Fetch(context.Background(), "http://example.com")

	assert.Equal(t, roster.EINVALID, roster.ErrorCode(err))
	assert.Equal(t, "fetcher closed", roster.ErrorMessage(err))
	assert.Zero(t, fetcher.LauncherPID())
}
