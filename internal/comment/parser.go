// Package comment extracts user mentions from Favro comment text. Mentions
// use the bracket-and-at syntax [@username]; an unterminated marker (no
// closing bracket) is not a mention.
package comment

import (
	"regexp"

	"github.com/favrelay/favrelay/internal/types"
)

// DefaultSummaryLength is the truncation threshold used when callers do not
// pick their own.
const DefaultSummaryLength = 100

var mentionPattern = regexp.MustCompile(`\[@([^\]]+)\]`)

// Mention is one parsed occurrence of a user mention in comment text.
type Mention struct {
	// Username is the Favro username between [@ and the closing bracket.
	Username string
	// OriginalTag is the full matched token including brackets.
	OriginalTag string
	// Position is the 0-based offset of the match start in the comment body.
	Position int
}

// Parsed carries the mention extraction result for one comment.
type Parsed struct {
	CommentID   string
	Text        string
	HasMentions bool
	Mentions    []Mention
}

// Parse extracts all mentions from a comment, in text order.
func Parse(c *types.Comment) *Parsed {
	text := ""
	commentID := ""
	if c != nil {
		text = c.Comment
		commentID = c.CommentID
	}

	mentions := ParseText(text)

	return &Parsed{
		CommentID:   commentID,
		Text:        text,
		HasMentions: len(mentions) > 0,
		Mentions:    mentions,
	}
}

// ParseText scans text left to right for non-overlapping mention tokens.
func ParseText(text string) []Mention {
	var mentions []Mention
	for _, idx := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		mentions = append(mentions, Mention{
			Username:    text[idx[2]:idx[3]],
			OriginalTag: text[idx[0]:idx[1]],
			Position:    idx[0],
		})
	}
	return mentions
}

// HasMentions reports whether text contains at least one mention without
// building the full mention list. Used as a fast path before the resolve and
// dispatch flow.
func HasMentions(text string) bool {
	return mentionPattern.MatchString(text)
}

// Usernames returns the mentioned usernames in text order.
func Usernames(mentions []Mention) []string {
	names := make([]string, 0, len(mentions))
	for _, m := range mentions {
		names = append(names, m.Username)
	}
	return names
}

// Summarize truncates text to maxLength characters, appending "..." when
// truncation happened. Empty input yields an empty string.
func Summarize(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength] + "..."
}
