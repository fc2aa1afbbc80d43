package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server fronting the registry API. Registry payloads are
// small JSON bodies, so the read and idle limits are tight; per-request
// deadlines are enforced by the router's timeout middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
