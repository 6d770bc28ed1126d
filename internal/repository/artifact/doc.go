// Package artifact gives read access to build output directories.
//
// A Store wraps a go-billy filesystem (the host OS in production, memfs in
// tests) and implements artifact discovery, the trusted checksum sidecar,
// streaming SHA-256 hashing, MIME sniffing and document I/O.
package artifact
