// Package release contains the core domain rules for publishing a release.
//
// It defines the platform matrix (Target, Platform, Kind), the canonical
// artifact naming scheme, the channel-aware storage layout and the Asset and
// Payload records handed to the backend. Everything here is pure: no
// filesystem access and no logging.
package release
