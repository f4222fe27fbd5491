package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"go.uber.org/zap"

	"tool-radar/config"
)

const searchJSON = `{
  "total_count": 2,
  "items": [
    {
      "name": "codehelper",
      "full_name": "acme/codehelper",
      "description": "AI assistant for code generation",
      "html_url": "https://github.com/acme/codehelper",
      "homepage": "https://codehelper.dev",
      "stargazers_count": 2400,
      "forks_count": 130,
      "topics": ["ai", "developer-tools"],
      "created_at": "2024-03-01T12:00:00Z"
    },
    {
      "name": "botkit",
      "full_name": "acme/botkit",
      "description": "Chatbot framework",
      "html_url": "https://github.com/acme/botkit",
      "homepage": "",
      "stargazers_count": 800,
      "forks_count": 60,
      "topics": [],
      "created_at": "2023-11-15T08:30:00Z"
    }
  ]
}`

func newTestFetcher(token string, transport *httpmock.MockTransport) *Fetcher {
	cfg := &config.Config{
		GitHubAPIURL: "http://github.test",
		GitHubToken:  token,
	}
	f := NewFetcher(cfg, zap.NewNop())
	f.client = &http.Client{Transport: transport}
	return f
}

func TestFetchMapsRepositories(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://github.test/search/repositories",
		httpmock.NewStringResponder(200, searchJSON))

	f := newTestFetcher("", transport)
	candidates, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("candidates=%d, want 2", len(candidates))
	}
	first := candidates[0]
	if first.Name != "codehelper" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Website != "https://codehelper.dev" {
		t.Errorf("website = %q, want homepage when set", first.Website)
	}
	if got := first.Metric("stars"); got != 2400 {
		t.Errorf("stars = %v, want 2400", got)
	}
	// HTML-URL als Website, wenn keine Homepage gepflegt ist
	if candidates[1].Website != "https://github.com/acme/botkit" {
		t.Errorf("website fallback = %q", candidates[1].Website)
	}
}

func TestFetchSendsBearerToken(t *testing.T) {
	transport := httpmock.NewMockTransport()
	var seenAuth string
	transport.RegisterResponder("GET", "http://github.test/search/repositories",
		func(req *http.Request) (*http.Response, error) {
			seenAuth = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(200, searchJSON), nil
		})

	f := newTestFetcher("gh-token", transport)
	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if seenAuth != "Bearer gh-token" {
		t.Errorf("Authorization = %q", seenAuth)
	}
}

func TestFetchFallsBackOnAPIError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://github.test/search/repositories",
		httpmock.NewStringResponder(403, `{"message": "rate limit exceeded"}`))

	f := newTestFetcher("", transport)
	candidates, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch should not fail on API error, got %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected fallback candidates on API error")
	}
	for _, c := range candidates {
		if c.SourceName != "github" {
			t.Errorf("source = %q, want github", c.SourceName)
		}
	}
}

func TestFetchFallsBackOnBrokenPayload(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://github.test/search/repositories",
		httpmock.NewStringResponder(200, "not json"))

	f := newTestFetcher("", transport)
	candidates, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected fallback candidates on parse error")
	}
}
