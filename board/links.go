package board

import (
	"regexp"
	"strings"
)

// AllowedLinkPrefixes are the streaming links that qualify a message for the songboard.
var AllowedLinkPrefixes = []string{
	"https://open.spotify.com/track/",
	"https://spotify.link/",
}

var (
	trackLinkPattern = regexp.MustCompile(`https://open\.spotify\.com/track/[a-zA-Z0-9]+`)
	shortLinkPattern = regexp.MustCompile(`https://spotify\.link/[a-zA-Z0-9_-]+`)
	// Matches either link plus an optional query string so tracking parameters are stripped too.
	songLinkWithQueryPattern = regexp.MustCompile(`(https://open\.spotify\.com/track/[a-zA-Z0-9]+|https://spotify\.link/[a-zA-Z0-9_-]+)(\?[^\s]*)?`)
	repeatedBlanks           = regexp.MustCompile(`[ \t]{2,}`)
)

// HasAllowedLink reports whether content mentions any allow-listed link prefix.
func HasAllowedLink(content string) bool {
	for _, prefix := range AllowedLinkPrefixes {
		if strings.Contains(content, prefix) {
			return true
		}
	}
	return false
}

// ExtractSongLinks returns the full track links followed by the short links found in
// content, without duplicates and in order of first appearance within each group.
func ExtractSongLinks(content string) []string {
	if !HasAllowedLink(content) {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	for _, pattern := range []*regexp.Regexp{trackLinkPattern, shortLinkPattern} {
		for _, link := range pattern.FindAllString(content, -1) {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}
	return links
}

// StripSongLinks removes song links (and their query strings) from content.
func StripSongLinks(content string) string {
	stripped := songLinkWithQueryPattern.ReplaceAllString(content, "")
	lines := strings.Split(stripped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(repeatedBlanks.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
