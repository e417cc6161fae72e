package subtitlesrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoadHTTPReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"))
	}))
	defer srv.Close()

	d := NewDefault()
	body, err := d.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("expected non-empty subtitle body")
	}
}

func TestLoadHTTPNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDefault()
	if _, err := d.Load(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected an error for a 404 response")
	}
}

func TestLoadUnsupportedSchemeIsError(t *testing.T) {
	d := NewDefault()
	if _, err := d.Load(context.Background(), "ftp://example.com/subs.srt"); err == nil {
		t.Fatalf("expected an error for an unsupported scheme")
	}
}
