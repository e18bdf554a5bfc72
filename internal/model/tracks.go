package model

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// trackSeparators matches ";", "·" and "|" with surrounding whitespace.
	trackSeparators = regexp.MustCompile(`\s*[;·|]\s*`)

	// trackSeparatorsComma additionally splits on ",".
	trackSeparatorsComma = regexp.MustCompile(`\s*[;·|,]\s*`)
)

// SplitTracks converts a raw track cell into an ordered track list.
//
// String input is split on semicolon, middle dot and pipe (and comma when
// splitOnComma is set). Each segment is trimmed and empty segments are
// dropped. Already-structured input is passed through:
//   - []string is returned as is
//   - []any is converted element by element with fmt.Sprint, skipping
//     nil elements (JSON nulls)
//
// nil and any other type yield an empty list.
//
// Example:
//
//	SplitTracks("Track A ; Track B · Track C", false)
//	// Returns ["Track A", "Track B", "Track C"]
func SplitTracks(v any, splitOnComma bool) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return t
	case []any:
		tracks := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			tracks = append(tracks, fmt.Sprint(item))
		}
		return tracks
	case string:
		return splitTrackString(t, splitOnComma)
	default:
		return []string{}
	}
}

func splitTrackString(s string, splitOnComma bool) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	re := trackSeparators
	if splitOnComma {
		re = trackSeparatorsComma
	}

	parts := re.Split(s, -1)
	tracks := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			tracks = append(tracks, part)
		}
	}
	return tracks
}
