package parser

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"shenanigigs/statistics/internal/config"
)

// The chat exporter puts a narrow no-break space between the time and am/pm.
const narrowNoBreakSpace = '\u202f'

type Segmenter struct {
	footer string
	marker string
}

func NewSegmenter(cfg *config.Config) *Segmenter {
	return &Segmenter{
		footer: cfg.Segmenter.Footer,
		marker: cfg.Segmenter.Marker,
	}
}

var defaultSegmenter = &Segmenter{
	footer: config.DefaultFooter,
	marker: config.DefaultMarker,
}

// Segment splits a chat export into posting messages using the default
// footer and marker.
func Segment(text string) []string {
	return defaultSegmenter.Segment(text)
}

// Segment splits text on the community footer and keeps the pieces that
// carry the posting marker. Older announcements without the marker are
// dropped.
func (s *Segmenter) Segment(text string) []string {
	messages := make([]string, 0)
	if text == "" {
		return messages
	}

	for _, message := range strings.Split(normalizeText(text), s.footer) {
		if strings.Contains(message, s.marker) {
			messages = append(messages, message)
		}
	}
	return messages
}

func normalizeText(text string) string {
	spaces := runes.Map(func(r rune) rune {
		if r == narrowNoBreakSpace {
			return ' '
		}
		return r
	})
	if out, _, err := transform.String(spaces, text); err == nil {
		text = out
	}
	return strings.ReplaceAll(text, "*Internship*", "Internship")
}
