package analysis

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidVideo = errors.New("invalid youtube url or video id")

var (
	videoURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts|live)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	videoIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID accepts a watch, short-link, embed or shorts URL, or a bare id.
func ExtractVideoID(urlOrID string) (string, error) {
	input := strings.TrimSpace(urlOrID)
	if videoIDPattern.MatchString(input) {
		return input, nil
	}
	if m := videoURLPattern.FindStringSubmatch(input); len(m) >= 2 {
		return m[1], nil
	}
	return "", ErrInvalidVideo
}
