package storage

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// validateKey rejects keys that are empty, absolute or escape the store root.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("empty object key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("invalid object key %q", key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("invalid object key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("invalid object key %q", key)
		}
	}
	return nil
}

// expiryQuery returns the query string carrying an absolute expiry time.
func expiryQuery(expires time.Time) string {
	v := url.Values{}
	v.Set("expires", strconv.FormatInt(expires.Unix(), 10))
	return v.Encode()
}

// checkExpiry reports an error if the expires parameter of u is missing or before now.
func checkExpiry(u *url.URL, now time.Time) error {
	raw := u.Query().Get("expires")
	if raw == "" {
		return fmt.Errorf("url has no expiry")
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry %q: %w", raw, err)
	}
	if now.Unix() >= sec {
		return fmt.Errorf("url expired at %s", time.Unix(sec, 0).UTC().Format(time.RFC3339))
	}
	return nil
}
