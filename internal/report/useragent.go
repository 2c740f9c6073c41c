// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"github.com/mileusna/useragent"
)

// Device types.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// Agent is the parsed form of a User-Agent header.
type Agent struct {
	Browser string
	OS      string
	Device  string
}

// ParseAgent extracts browser, OS and device type from a user agent string.
func ParseAgent(raw string) Agent {
	ua := useragent.Parse(raw)

	a := Agent{Browser: ua.Name, OS: ua.OS}
	if a.Browser == "" {
		a.Browser = "Unknown"
	}
	if a.OS == "" {
		a.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		a.Device = DeviceBot
	case ua.Tablet:
		a.Device = DeviceTablet
	case ua.Mobile:
		a.Device = DeviceMobile
	default:
		a.Device = DeviceDesktop
	}
	return a
}
