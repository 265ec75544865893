// Package cliparse parses configuration from CLI flags with
// environment-variable fallback.
package cliparse
