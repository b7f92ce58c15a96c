package httpx

import (
	"net/http"
	"slices"
	"strings"

	"github.com/rs/cors"
)

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// corsMaxAge is how long browsers may cache a preflight answer, in seconds.
const corsMaxAge = 600

// CORS allows cross-origin requests from the listed origins with credentials,
// any header and the usual methods. A "*" entry allows every origin; the
// request origin is echoed back rather than "*" so credentials still work.
// Preflight requests are answered with 204 and never reach next.
func CORS(origins []string) Middleware {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	if slices.Contains(origins, "*") {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}

	return cors.New(opts).Handler
}
