// Package resolve backs the small binaries CI shell scripts call to get
// canonical artifact names and storage locations without duplicating the
// naming rules.
package resolve
