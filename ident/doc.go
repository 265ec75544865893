// Package ident generates opaque row IDs and URL-safe chain slugs.
package ident
