package service

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	lyricsMarkerRe = regexp.MustCompile(`(?i)lyrics`)
)

// CleanLyrics drops everything up to and including the first "lyrics"
// marker (case-insensitive), which lyric sites prepend as a header.
func CleanLyrics(lyrics string) string {
	if loc := lyricsMarkerRe.FindStringIndex(lyrics); loc != nil {
		lyrics = lyrics[loc[1]:]
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(lyrics, " "))
}

// CleanTitle removes parenthesized and bracketed suffixes such as
// "(Remastered 2011)" or "[Live]".
func CleanTitle(title string) string {
	if i := strings.IndexAny(title, "(["); i > 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
