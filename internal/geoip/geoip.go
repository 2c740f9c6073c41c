// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor addresses to countries using a MaxMind
// GeoLite2-Country database. Lookups degrade to empty results when no
// database is configured.
package geoip

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/netip"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Local is returned for loopback and private addresses.
const Local = "LOCAL"

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// Lookup maps IP addresses to ISO country codes.
type Lookup struct {
	mu      sync.RWMutex
	db      *maxminddb.Reader
	path    string
	modTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open loads the database at path. An empty path returns a disabled
// Lookup that only recognizes local addresses.
func Open(path string) (*Lookup, error) {
	l := &Lookup{path: path}
	if path == "" {
		return l, nil
	}
	if err := l.load(); err != nil {
		return l, err
	}
	return l, nil
}

// load opens the database when it changed on disk. Caller holds mu.
func (l *Lookup) load() error {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("geoip database not found: %s", l.path)
		}
		return fmt.Errorf("geoip database stat: %w", err)
	}

	if l.db != nil && info.ModTime().Equal(l.modTime) {
		return nil
	}

	db, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening geoip database: %w", err)
	}

	if l.db != nil {
		_ = l.db.Close()
	}
	l.db = db
	l.modTime = info.ModTime()
	return nil
}

// Reload reopens the database if the file has been replaced.
func (l *Lookup) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return nil
	}
	return l.load()
}

// Country returns the ISO code for ip, Local for private ranges, or ""
// when the address is invalid or unknown.
func (l *Lookup) Country(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	addr = addr.Unmap()

	if isLocal(addr) {
		return Local
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return ""
	}

	var rec countryRecord
	if err := l.db.Lookup(net.IP(addr.AsSlice()), &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (l *Lookup) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Close releases the database.
func (l *Lookup) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func isLocal(addr netip.Addr) bool {
	if addr.IsLoopback() || addr.IsUnspecified() {
		return true
	}
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

var countryNames = map[string]string{
	Local: "Local Network",
	"US":  "United States",
	"GB":  "United Kingdom",
	"DE":  "Germany",
	"FR":  "France",
	"ES":  "Spain",
	"IT":  "Italy",
	"NL":  "Netherlands",
	"SE":  "Sweden",
	"CA":  "Canada",
	"BR":  "Brazil",
	"AU":  "Australia",
	"JP":  "Japan",
	"CN":  "China",
	"KR":  "South Korea",
	"IN":  "India",
	"LK":  "Sri Lanka",
	"SG":  "Singapore",
	"MY":  "Malaysia",
	"AE":  "United Arab Emirates",
	"IE":  "Ireland",
	"ZA":  "South Africa",
}

// CountryName returns a display name for a country code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	if code == "" {
		return "Unknown"
	}
	return code
}
