package middleware

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// Graph payloads are large and highly repetitive JSON; level 5 brotli keeps
// per-request CPU low while compressing better than gzip.
const brotliLevel = 5

var (
	gzipPool = sync.Pool{New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	}}
	brotliPool = sync.Pool{New: func() interface{} {
		return brotli.NewWriterLevel(io.Discard, brotliLevel)
	}}
)

type flushWriter interface {
	io.WriteCloser
	Flush() error
	Reset(io.Writer)
}

// compressWriter sends the body through a brotli or gzip encoder.
type compressWriter struct {
	http.ResponseWriter
	enc         flushWriter
	wroteHeader bool
	bodyless    bool
}

func (w *compressWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if status == http.StatusNoContent || status == http.StatusNotModified {
		w.bodyless = true
		w.Header().Del("Content-Encoding")
	}
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.bodyless {
		return w.ResponseWriter.Write(b)
	}
	return w.enc.Write(b)
}

// Flush pushes buffered compressed bytes to the client.
func (w *compressWriter) Flush() {
	_ = w.enc.Flush()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// negotiateEncoding picks br over gzip when both are accepted. A q=0 entry
// rejects that coding.
func negotiateEncoding(header string) string {
	br, gz := false, false
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		coding := strings.ToLower(strings.TrimSpace(fields[0]))
		rejected := false
		for _, p := range fields[1:] {
			if v := strings.ReplaceAll(strings.TrimSpace(p), " ", ""); v == "q=0" || v == "q=0.0" || v == "q=0.00" || v == "q=0.000" {
				rejected = true
			}
		}
		if rejected {
			continue
		}
		switch coding {
		case "br":
			br = true
		case "gzip":
			gz = true
		}
	}
	switch {
	case br:
		return "br"
	case gz:
		return "gzip"
	default:
		return ""
	}
}

// Compress encodes responses with brotli or gzip according to the
// Accept-Encoding header. WebSocket upgrades pass through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		var enc flushWriter
		switch negotiateEncoding(r.Header.Get("Accept-Encoding")) {
		case "br":
			bw := brotliPool.Get().(*brotli.Writer)
			bw.Reset(w)
			defer brotliPool.Put(bw)
			enc = bw
			w.Header().Set("Content-Encoding", "br")
		case "gzip":
			gz := gzipPool.Get().(*gzip.Writer)
			gz.Reset(w)
			defer gzipPool.Put(gz)
			enc = gz
			w.Header().Set("Content-Encoding", "gzip")
		default:
			next.ServeHTTP(w, r)
			return
		}

		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer func() {
			// Bodyless responses must not carry a Content-Encoding
			if !cw.wroteHeader || cw.bodyless {
				w.Header().Del("Content-Encoding")
				enc.Reset(io.Discard)
				return
			}
			enc.Close()
		}()
		next.ServeHTTP(cw, r)
	})
}

// statusWriter records the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the WebSocket upgrader take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if w.status == 0 {
		w.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}
