package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type zstdWriter struct {
	http.ResponseWriter
	enc *zstd.Encoder
}

func (w *zstdWriter) Write(b []byte) (int, error) {
	return w.enc.Write(b)
}

// acceptsZstd reports whether an Accept-Encoding header allows a zstd body.
// An explicit zstd entry wins over "*"; a q value of 0 refuses.
func acceptsZstd(header string) bool {
	wildcard := false
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding != "zstd" && coding != "*" {
			continue
		}

		ok := qualityAbove0(params)
		if coding == "zstd" {
			return ok
		}
		wildcard = ok
	}
	return wildcard
}

func qualityAbove0(params string) bool {
	for _, p := range strings.Split(params, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(k), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && q > 0
	}
	return true
}

// ZstdMiddleware compresses responses for clients that accept zstd.
func ZstdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if !acceptsZstd(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		enc, err := zstd.NewWriter(w)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer enc.Close()

		w.Header().Set("Content-Encoding", "zstd")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&zstdWriter{ResponseWriter: w, enc: enc}, r)
	})
}
