package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/continuity/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Host string
	Port int

	// SiteDir is served statically at "/".
	SiteDir string

	// PathPrefix is the mount point of the JSON API.
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	// AuthEnabled protects write endpoints (POST /think) with APIKey.
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// RateLimit is requests per minute per IP, 0 to disable.
	RateLimit int
	CacheTTL  time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Version string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		SiteDir:      constants.DefaultSiteDir,
		PathPrefix:   "/api/v1",
		AuthHeader:   "X-API-Key",
		RateLimit:    100,
		CacheTTL:     5 * time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: constants.ThinkTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		Version:      "dev",
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
