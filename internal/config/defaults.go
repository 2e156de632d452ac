// Package config handles application configuration loading and validation.
package config

import (
	"time"

	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
)

// Default configuration values.
const (
	DefaultServer = ntfy.DefaultServer
	DefaultTopic  = ""

	DefaultPriority   = ""
	DefaultMarkdown   = false
	DefaultNoCache    = false
	DefaultNoFirebase = false

	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 2 * time.Second
	DefaultRetryMaxDelay     = 30 * time.Second
	DefaultRetryTimeout      = 30 * time.Second

	DefaultMetricsEnabled        = false
	DefaultMetricsPushgatewayURL = ""
	DefaultMetricsJob            = "ntfy_publisher"

	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// AuthMode describes which credentials a config carries.
type AuthMode string

const (
	// AuthNone sends no authorization header.
	AuthNone AuthMode = "none"
	// AuthToken sends a bearer token.
	AuthToken AuthMode = "token"
	// AuthBasic sends a username and password.
	AuthBasic AuthMode = "basic"
)

// String returns the string representation of the auth mode.
func (m AuthMode) String() string {
	return string(m)
}
