// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// KeyAdminLoggedIn is the session key holding the admin flag.
const KeyAdminLoggedIn = "admin_logged_in"

// Login marks the session as authenticated. The token is renewed first so a
// pre-login session id cannot be reused.
func Login(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyAdminLoggedIn, true)
	return nil
}

// Logout clears the admin flag and destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	sm.Remove(ctx, KeyAdminLoggedIn)
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// IsAdmin reports whether the request session carries the admin flag.
func IsAdmin(ctx context.Context, sm *scs.SessionManager) bool {
	return sm.GetBool(ctx, KeyAdminLoggedIn)
}
