package web

import (
	"net/http"

	"zone/internal/auth"
	"zone/internal/config"
)

// NewChecker builds the basic auth checker from the auth file and the
// env user. It returns nil when neither is configured.
func NewChecker(cfg config.Config) (auth.Checker, error) {
	var checkers anyChecker
	if cfg.AuthFile != "" {
		users, err := auth.LoadFile(cfg.AuthFile)
		if err != nil {
			return nil, err
		}
		checkers = append(checkers, users)
	}
	if cfg.AuthUser != "" && cfg.AuthPass != "" {
		checkers = append(checkers, auth.Static{User: cfg.AuthUser, Password: cfg.AuthPass})
	}
	if len(checkers) == 0 {
		return nil, nil
	}
	return checkers, nil
}

type anyChecker []auth.Checker

func (a anyChecker) Check(user, password string) bool {
	for _, c := range a {
		if c.Check(user, password) {
			return true
		}
	}
	return false
}

func requireAuth(c auth.Checker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !c.Check(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="zone"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), User{Name: user})))
	})
}
