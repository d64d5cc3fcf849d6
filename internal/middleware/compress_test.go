package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

const payload = `{"nodes":[{"id":"1","name":"A","country":"USA"},{"id":"2","name":"B","country":"USA"}]}`

func payloadHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})
}

func TestCompress(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		want           string
	}{
		{"brotli preferred", "gzip, deflate, br", "br"},
		{"gzip only", "gzip", "gzip"},
		{"brotli refused", "br;q=0, gzip", "gzip"},
		{"identity", "", ""},
		{"deflate only", "deflate", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rr := httptest.NewRecorder()
			Compress(payloadHandler()).ServeHTTP(rr, req)

			if got := rr.Header().Get("Content-Encoding"); got != tt.want {
				t.Fatalf("Content-Encoding = %q, want %q", got, tt.want)
			}

			var body io.Reader = rr.Body
			switch tt.want {
			case "br":
				body = brotli.NewReader(rr.Body)
			case "gzip":
				gr, err := gzip.NewReader(rr.Body)
				if err != nil {
					t.Fatalf("failed to create gzip reader: %v", err)
				}
				defer gr.Close()
				body = gr
			}
			got, err := io.ReadAll(body)
			if err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if string(got) != payload {
				t.Errorf("body = %q", got)
			}
		})
	}
}

func TestCompressSkipsBodylessResponses(t *testing.T) {
	h := Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/layout/restart", nil)
	req.Header.Set("Accept-Encoding", "br")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Encoding") != "" || rr.Body.Len() != 0 {
		t.Error("204 responses must not be encoded")
	}
}

func TestCompressSkipsWebSocketUpgrade(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/layout/ws", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Upgrade", "websocket")
	rr := httptest.NewRecorder()
	Compress(payloadHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("Content-Encoding") != "" {
		t.Error("upgrade requests must pass through")
	}
	if !strings.Contains(rr.Body.String(), `"nodes"`) {
		t.Error("expected plain body")
	}
}

func TestNegotiateEncoding(t *testing.T) {
	tests := map[string]string{
		"br":              "br",
		"BR":              "br",
		"gzip;q=0.5, br":  "br",
		"gzip, br;q=0":    "gzip",
		"gzip;q=0":        "",
		"*":               "",
		" gzip , deflate": "gzip",
	}
	for in, want := range tests {
		if got := negotiateEncoding(in); got != want {
			t.Errorf("negotiateEncoding(%q) = %q, want %q", in, got, want)
		}
	}
}
