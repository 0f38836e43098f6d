// Package endpoint normalizes service endpoint hosts.
package endpoint

import "strings"

const scheme = "https://"

// Normalize prepends https:// unless host already starts with it (case-insensitive).
// Trailing slashes are removed so paths can be appended.
func Normalize(host string) string {
	host = strings.TrimSpace(host)
	if !strings.HasPrefix(strings.ToLower(host), scheme) {
		host = scheme + host
	}
	return strings.TrimRight(host, "/")
}
