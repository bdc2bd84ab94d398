// Package constants provides shared constants used throughout continuity:
// timeouts, limits, file permissions and the defaults of the think cycle.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for a single inference request
	DefaultHTTPTimeout = 60 * time.Second

	// ThinkTimeout bounds one complete think cycle, including retries and git push
	ThinkTimeout = 5 * time.Minute

	// ShutdownTimeout is how long graceful shutdown may take
	ShutdownTimeout = 5 * time.Second

	// DefaultInterval is used when no cron schedule is configured
	DefaultInterval = 1 * time.Hour
)

// Schedule defaults
const (
	// DefaultSchedule runs a cycle at the top of every hour
	DefaultSchedule = "0 * * * *"
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Think cycle defaults
const (
	// DefaultThoughtsDir holds one JSON file per thought
	DefaultThoughtsDir = "thoughts"

	// DefaultSiteDir is where index.html and feed.xml are written
	DefaultSiteDir = "."

	// DefaultContextSize is how many previous thoughts are fed back into the prompt
	DefaultContextSize = 10

	// DefaultPageSize is how many thoughts the published page shows
	DefaultPageSize = 50

	// DefaultMaxTokens caps the length of a generated thought
	DefaultMaxTokens = 1000

	// DefaultTemperature is the sampling temperature of every inference call
	DefaultTemperature = 0.9
)

// HTTP retry settings
const (
	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries = 3
)

// Memory repository defaults
const (
	// DefaultAuthorName is the git author of thought commits
	DefaultAuthorName = "Continuity"

	// DefaultAuthorEmail is the git author email of thought commits
	DefaultAuthorEmail = "continuity@users.noreply.github.com"

	// DefaultRemote is the remote pushed to when push is enabled
	DefaultRemote = "origin"
)
