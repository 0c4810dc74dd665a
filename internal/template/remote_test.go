package template

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

const testBaseURL = "https://templates.example.test/main"

func newMockedRemote(t *testing.T, retries int) *RemoteProvider {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewRemoteProvider(testBaseURL, time.Second,
		WithHTTPClient(client),
		WithRetries(retries),
		WithRetryDelay(time.Millisecond),
	)
}

func TestRemoteProviderDefaultLayout(t *testing.T) {
	p := newMockedRemote(t, 0)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/manifest.yaml",
		httpmock.NewStringResponder(404, "not found"))
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/html/index.html",
		httpmock.NewStringResponder(200, "<html>remote</html>"))

	out, err := p.Fetch(context.Background(), KindHTML, nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(out) != "<html>remote</html>" {
		t.Errorf("got %q", out)
	}
}

func TestRemoteProviderManifest(t *testing.T) {
	p := newMockedRemote(t, 0)

	manifest := "name: starter\nversion: \"2\"\nfiles:\n  css: assets/site.css\n  readme: README.md\n"
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/manifest.yaml",
		httpmock.NewStringResponder(200, manifest))
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/assets/site.css",
		httpmock.NewStringResponder(200, "body{}"))

	out, err := p.Fetch(context.Background(), KindCSS, nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(out) != "body{}" {
		t.Errorf("got %q", out)
	}

	if _, err := p.Fetch(context.Background(), KindReadme, nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("readme should be unavailable remotely, got %v", err)
	}

	info := httpmock.GetCallCountInfo()
	if n := info["GET "+testBaseURL+"/manifest.yaml"]; n != 1 {
		t.Errorf("manifest fetched %d times, want 1", n)
	}
}

func TestRemoteProviderFailures(t *testing.T) {
	t.Run("client_error_not_retried", func(t *testing.T) {
		p := newMockedRemote(t, 3)
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/manifest.yaml",
			httpmock.NewStringResponder(404, ""))
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/js/script.js",
			httpmock.NewStringResponder(403, "forbidden"))

		_, err := p.Fetch(context.Background(), KindJavaScript, nil)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
		if n := httpmock.GetCallCountInfo()["GET "+testBaseURL+"/js/script.js"]; n != 1 {
			t.Errorf("4xx retried: %d calls", n)
		}
	})

	t.Run("server_error_retried", func(t *testing.T) {
		p := newMockedRemote(t, 2)
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/manifest.yaml",
			httpmock.NewStringResponder(404, ""))
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/html/index.html",
			httpmock.NewStringResponder(503, "busy"))

		_, err := p.Fetch(context.Background(), KindHTML, nil)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
		if n := httpmock.GetCallCountInfo()["GET "+testBaseURL+"/html/index.html"]; n != 3 {
			t.Errorf("calls = %d, want 3", n)
		}
	})

	t.Run("empty_body", func(t *testing.T) {
		p := newMockedRemote(t, 0)
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/manifest.yaml",
			httpmock.NewStringResponder(404, ""))
		httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/css/styles.css",
			httpmock.NewStringResponder(200, "  \n"))

		if _, err := p.Fetch(context.Background(), KindCSS, nil); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("transport_error", func(t *testing.T) {
		p := newMockedRemote(t, 0)
		httpmock.RegisterNoResponder(httpmock.NewErrorResponder(errors.New("dial failed")))

		if _, err := p.Fetch(context.Background(), KindHTML, nil); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("no_base_url", func(t *testing.T) {
		p := NewRemoteProvider("", 0)
		if _, err := p.Fetch(context.Background(), KindHTML, nil); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}
