package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/mathadventures/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer minor", "v1.2.0", "v1.3.0", true},
		{"same", "v1.2.0", "v1.2.0", false},
		{"older remote", "v2.0.0", "v1.9.9", false},
		{"missing v prefix", "1.2.0", "v1.2.1", true},
		{"prerelease behind release", "v1.3.0-rc.1", "v1.3.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := releaseServer(t, tt.latest)
			res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.UpdateAvailable)
			assert.Equal(t, "https://example.com/"+tt.latest, res.ReleaseURL)
		})
	}
}

func TestCheck_DevBuild(t *testing.T) {
	_, err := NewChecker().Check(context.Background(), &CheckInput{Version: DevVersion})
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestCheck_InvalidVersion(t *testing.T) {
	_, err := NewChecker().Check(context.Background(), &CheckInput{Version: "banana"})
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestCheck_HTTPError(t *testing.T) {
	server := releaseServer(t, "v1.0.0")
	c := NewChecker(WithBaseURL(server.URL), WithRepository("someone", "else"))
	_, err := c.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
