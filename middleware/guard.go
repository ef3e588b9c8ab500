package middleware

import "net/http"

// Guard is one step of an access check. It returns the request to pass on
// (possibly with an enriched context) and false once it has written a
// terminal response.
type Guard func(w http.ResponseWriter, r *http.Request) (*http.Request, bool)

// Chain runs guards in order and stops at the first one that rejects.
func Chain(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, guard := range guards {
				var ok bool
				if r, ok = guard(w, r); !ok {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
