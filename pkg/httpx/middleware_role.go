package httpx

import "net/http"

// RequireRole rejects requests whose context identity lacks one of the
// allowed roles. Authentication must run earlier in the chain.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		want[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromCtx(r.Context())
			if _, ok := want[role]; !ok {
				WriteJSON(w, http.StatusForbidden, map[string]any{
					"success": false,
					"code":    "FORBIDDEN",
					"message": "insufficient role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
