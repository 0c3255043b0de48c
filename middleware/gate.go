// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
)

// ProtectedPrefixes are the paths that need a session cookie. A prefix
// covers itself and its sub paths, never siblings like /polls/new-year-xyz.
var ProtectedPrefixes = []string{"/dashboard", "/polls/new"}

// SessionGate redirects on session cookie presence alone:
// protected prefixes without a cookie go to /login?returnUrl=<path>, and the
// login/register pages with a cookie go to /dashboard. Cookie validity is
// checked by the handlers behind the gate.
func SessionGate(cookieName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		loggedIn := hasCookie(r, cookieName)

		if !loggedIn && isProtected(path) {
			target := LoginPath + "?" + url.Values{"returnUrl": {path}}.Encode()
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}

		if loggedIn && (path == LoginPath || path == RegisterPath) {
			http.Redirect(w, r, DashboardPath, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hasCookie(r *http.Request, name string) bool {
	c, err := r.Cookie(name)
	return err == nil && c.Value != ""
}

func isProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
