package feed

import (
	"fmt"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

const MaxContentLength = 280

// isEmojiGlue reports characters that only occur inside composed emoji
// sequences. gomoji strips the composed forms it knows; whatever joiners are
// left behind are still emoji content, not text.
func isEmojiGlue(r rune) bool {
	switch {
	case r == 0x200D: // zero width joiner
		return true
	case r == 0xFE0E || r == 0xFE0F: // variation selectors
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == 0x20E3: // combining enclosing keycap
		return true
	}
	return false
}

// ValidateContent enforces the write policy: 1..280 characters, emoji only.
// Whitespace counts as text and is rejected.
func ValidateContent(content string) error {
	if content == "" {
		return fmt.Errorf("content must not be empty: %w", ValidationError)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("content exceeds %d characters: %w", MaxContentLength, ValidationError)
	}
	if !gomoji.ContainsEmoji(content) {
		return fmt.Errorf("only emojis are allowed: %w", ValidationError)
	}
	for _, r := range gomoji.RemoveEmojis(content) {
		if !isEmojiGlue(r) {
			return fmt.Errorf("only emojis are allowed: %w", ValidationError)
		}
	}
	return nil
}
