package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL points baseURL at databaseName.
// Any database already named in baseURL is replaced, query parameters are
// kept, and sslmode=disable is added when no sslmode is given.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	// If DATABASE_NAME is not set, return the base URL as-is
	if databaseName == "" {
		return baseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" {
		// Not a URL we understand; fall back to appending the name
		return strings.TrimRight(baseURL, "/") + "/" + databaseName
	}

	parsed.Path = "/" + databaseName
	query := parsed.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
