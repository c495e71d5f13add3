package downstream

import "testing"

func TestResolveBase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"bare host defaults to https", "example.com", "https://example.com"},
		{"explicit http kept", "http://telegram-service:8080", "http://telegram-service:8080"},
		{"explicit https kept", "https://example.com", "https://example.com"},
		{"trailing slash dropped", "https://example.com/", "https://example.com"},
		{"surrounding space trimmed", "  example.com ", "https://example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveBase(tc.in); got != tc.want {
				t.Fatalf("ResolveBase(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base string
		path string
		want string
	}{
		{"https://example.com", "analyze", "https://example.com/analyze"},
		{"https://example.com/", "/analyze", "https://example.com/analyze"},
		{"https://example.com//", "//analyze", "https://example.com/analyze"},
		{"https://example.com", "", "https://example.com"},
	}
	for _, tc := range cases {
		if got := JoinURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("JoinURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestEndpointURLs(t *testing.T) {
	e := NewEndpoint(NameAISignal, "example.com", pathAnalyze)
	if got := e.URL(); got != "https://example.com/analyze" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := e.HealthURL(); got != "https://example.com/health" {
		t.Fatalf("unexpected health url %q", got)
	}
	if !e.Configured() {
		t.Fatalf("expected configured endpoint")
	}
	if NewEndpoint(NameNewsAI, " ", pathAnalyze).Configured() {
		t.Fatalf("expected blank address to stay unconfigured")
	}
}
