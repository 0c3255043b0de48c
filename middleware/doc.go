// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).
StatusRecorder is exported so other wrappers can read the written status.

# CORS Middleware

Enable cross-origin requests from the web client:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Credentials are allowed, so the request Origin is echoed back.

# Session Gate

SessionGate redirects page routes on cookie presence:

  - /dashboard* and /polls/new* without a cookie → /login?returnUrl=<path>
  - /login and /register with a cookie → /dashboard

It never looks the session up; handlers do.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

Bodies are capped at 1 MiB.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for salted IP hashing on anonymous votes.
*/
package middleware
