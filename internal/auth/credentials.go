// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Credentials is the configured admin account. When PasswordHash is set it
// takes precedence over Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify reports whether the submitted username and password match.
// Both comparisons always run so the outcome does not leak which field was wrong.
func (c Credentials) Verify(username, password string) bool {
	userOK := constantTimeEqual(username, c.Username)

	var passOK bool
	if c.PasswordHash != "" {
		ok, err := CheckPassword(password, c.PasswordHash)
		passOK = err == nil && ok
	} else {
		passOK = c.Password != "" && constantTimeEqual(password, c.Password)
	}

	return userOK && passOK
}

// constantTimeEqual compares digests so unequal lengths take the same time.
func constantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
