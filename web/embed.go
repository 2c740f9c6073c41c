// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the admin HTML templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var Templates embed.FS

// TemplatesFS returns the templates rooted at the templates directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(Templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
