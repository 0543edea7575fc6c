package identity

import "unicode/utf16"

// reviewerEmojis is the fixed palette used to give anonymous reviewers a
// recognizable identity. Order matters: the hash indexes into this slice, so
// reordering entries would silently reassign every reviewer's emoji.
var reviewerEmojis = []string{
	"🦊", "🐼", "🐨", "🦁", "🐯", "🐮", "🐷", "🐸",
	"🐙", "🦄", "🦋", "🐢", "🐬", "🦈", "🦭", "🦩",
	"🦜", "🐍", "🦖", "🐳", "🦚", "🦡", "🦨", "🦦",
}

const (
	minPassphraseLen = 4
	maxPassphraseLen = 10
)

// simpleHash mirrors the web client's rolling hash exactly: for each UTF-16
// code unit, h = ((h << 5) - h) + c, truncated to a signed 32-bit integer at
// every step. The server and the browser must map identical passphrases to
// identical emoji, so the truncation behavior here is load-bearing.
func simpleHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// DeriveEmoji maps a passphrase to one palette emoji. The second return is
// false when the passphrase length is out of range, in which case the
// reviewer stays anonymous (not an error).
func DeriveEmoji(passphrase string) (string, bool) {
	if !ValidPassphrase(passphrase) {
		return "", false
	}
	// abs in 64-bit space: the client's Math.abs has no 32-bit overflow, so
	// abs(MinInt32) must be 2147483648 here too, not a wrapped negative.
	h := int64(simpleHash(passphrase))
	if h < 0 {
		h = -h
	}
	return reviewerEmojis[h%int64(len(reviewerEmojis))], true
}

// ValidPassphrase reports whether a passphrase is eligible for emoji
// derivation. Length is counted in UTF-16 code units, matching the client's
// string length semantics.
func ValidPassphrase(passphrase string) bool {
	n := len(utf16.Encode([]rune(passphrase)))
	return n >= minPassphraseLen && n <= maxPassphraseLen
}

// Palette returns the emoji palette, for membership checks.
func Palette() []string {
	return reviewerEmojis
}
