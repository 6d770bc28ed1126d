// Package payload assembles the document the backend uses to publish a release.
//
// It walks the platform matrix, discovers the artifacts of every target under
// its build output root, describes them as assets (storage path, CDN URL,
// checksum, size, content type, detached signature, installer metadata) and
// refuses to emit a payload that is empty or lacks a required platform.
package payload
