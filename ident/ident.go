// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ident

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque row ID.
func NewID() string {
	return uuid.NewString()
}

const slugMaxLen = 50

var nonLatin = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
var whitespace = regexp.MustCompile(`\s+`)
var hyphenRuns = regexp.MustCompile(`-+`)

// Slugify derives a URL-safe slug from a chain name. Latin names become
// a lowercased, hyphenated prefix plus a base-36 timestamp-and-random
// suffix so repeated names stay distinct even within one millisecond.
// Names with fewer than two Latin characters (e.g. written entirely in
// Hebrew) get a random token.
func Slugify(name string) string {
	latin := strings.TrimSpace(nonLatin.ReplaceAllString(name, ""))
	if len(latin) >= 2 {
		s := strings.ToLower(latin)
		s = whitespace.ReplaceAllString(s, "-")
		s = hyphenRuns.ReplaceAllString(s, "-")
		if len(s) > slugMaxLen {
			s = s[:slugMaxLen]
		}
		return s + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + randomBase36(4)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + randomBase36(6)
}

// randomBase36 returns n random base-36 characters.
func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand failing means the platform is broken;
			// fall back to a time-derived character.
			b.WriteByte(alphabet[time.Now().UnixNano()%36])
			continue
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}
