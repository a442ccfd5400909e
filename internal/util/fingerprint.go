package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint computes a stable hash for a finding. It keys on the snippet
// rather than line numbers so that unrelated edits above a finding keep its
// fingerprint; ordinal separates identical snippets within one file.
func Fingerprint(ruleID, file string, ordinal int, snippet string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", ruleID, file, ordinal, strings.Join(strings.Fields(snippet), " "))
	return hex.EncodeToString(h.Sum(nil))
}
