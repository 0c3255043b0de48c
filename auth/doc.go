// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential, token and identifier utilities.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrInvalidCredentials on mismatch

ValidateUsername and ValidatePassword enforce the sign-up rules; Strength
scores a password from 0 to 5 for display.

# Session Tokens

Session tokens are random 32-byte secrets, URL-safe base64 encoded:

	token, err := auth.GenerateSessionToken()
	hash, err := auth.HashToken(token, salt)

Only the HMAC hash is written to the database, so a leaked table cannot be
replayed as cookies.

# Identifiers

Record primary keys are UUIDs:

	id := auth.NewID()

ShareSuffix derives a short base62 suffix from a poll ID, used to keep poll
slugs unique.

# IP Hashing

For duplicate-vote detection without storing addresses:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
