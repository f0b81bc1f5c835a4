package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireChrome(t *testing.T) {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary on PATH")
}

// growingPage appends a block on every scroll until it holds five of them.
const growingPage = `<!doctype html><html><body style="margin:0">
<div id="list"><div style="height:3000px"><h4>first</h4></div></div>
<script>
let added = 0;
window.addEventListener('scroll', () => {
  if (added >= 5) return;
  added++;
  const d = document.createElement('div');
  d.style.height = '2000px';
  d.innerHTML = '<h4>item ' + added + '</h4>';
  document.getElementById('list').appendChild(d);
});
</script></body></html>`

func TestSession(t *testing.T) {
	requireChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(growingPage))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := New(ctx, Options{Headless: true})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Navigate(ctx, srv.URL))
	require.NoError(t, s.WaitVisible(ctx, "h4", 5*time.Second))

	before, err := s.ScrollHeight(ctx)
	require.NoError(t, err)
	assert.Greater(t, before, int64(0))

	require.NoError(t, s.ScrollToBottom(ctx))
	assert.Eventually(t, func() bool {
		h, err := s.ScrollHeight(ctx)
		return err == nil && h > before
	}, 5*time.Second, 100*time.Millisecond)

	html, err := s.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "<h4>first</h4>")

	err = s.WaitVisible(ctx, "h5.never", 200*time.Millisecond)
	assert.Error(t, err)
	assert.True(t, s.Alive())

	require.NoError(t, s.Close())
	assert.False(t, s.Alive())
}
