package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/models"
)

// space matches any Unicode whitespace. RE2's \s is ASCII only, and
// authors paste no-break spaces into postings.
const space = `[\s\p{Z}\x{85}]`

var (
	titlePattern = regexp.MustCompile(
		`(\d\d/\d\d/\d\d\d\d), \d+:\d+ [ap]m - \+[\d ]*: 👨‍💻` +
			space + `?(Mid-Senior|Junior|Mid|Senior|Lead)?` +
			space + `?([\p{L}\p{N}_/ .-]*?)` +
			space + `?(Engineer|Developer)?` +
			space + `?(Internship)?` +
			space + `?(Opportunity)?:`)
	locationPattern = regexp.MustCompile(
		`📍 Location: (On-site|Remote|Hybrid)(?:` + space + `?\|` + space + `?Relocation to (.*))?`)
	languagesPattern  = regexp.MustCompile(`🔹 Languages: ([\p{L}\p{N}_., #+]*)`)
	frameworksPattern = regexp.MustCompile(`🔸 Frameworks: ([\p{L}\p{N}_., ]*)`)
)

const tagSeparator = ", "

func generateUUIDFromText(text string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(text)).String()
}

// ExtractPosting pulls the posting fields out of one message. The title
// line is required; location, languages and frameworks are left empty when
// their line is missing.
func ExtractPosting(message string) (*models.JobPosting, error) {
	title := titlePattern.FindStringSubmatchIndex(message)
	if title == nil {
		return nil, errors.Extraction("title string not found", nil)
	}

	posting := &models.JobPosting{
		ID:   generateUUIDFromText(message),
		Date: group(message, title, 1),
		Title: models.Title{
			Seniority:   optionalGroup(message, title, 2),
			Role:        group(message, title, 3),
			RoleType:    optionalGroup(message, title, 4),
			Internship:  optionalGroup(message, title, 5),
			Opportunity: optionalGroup(message, title, 6),
		},
	}

	if location := locationPattern.FindStringSubmatchIndex(message); location != nil {
		posting.Location = &models.Location{
			Mode:       group(message, location, 1),
			Relocation: optionalGroup(message, location, 2),
		}
	}

	if languages := languagesPattern.FindStringSubmatch(message); languages != nil {
		posting.Languages = strings.Split(languages[1], tagSeparator)
	}

	if frameworks := frameworksPattern.FindStringSubmatch(message); frameworks != nil {
		posting.Frameworks = strings.Split(frameworks[1], tagSeparator)
	}

	return posting, nil
}

// ExtractAll extracts every message in order and stops at the first one
// without a title.
func ExtractAll(messages []string) ([]*models.JobPosting, error) {
	postings := make([]*models.JobPosting, 0, len(messages))
	for i, message := range messages {
		posting, err := ExtractPosting(message)
		if err != nil {
			return nil, fmt.Errorf("extract message %d: %w", i, err)
		}
		postings = append(postings, posting)
	}
	return postings, nil
}

// optionalGroup returns nil when group n did not take part in the match,
// which is different from matching the empty string.
func optionalGroup(s string, loc []int, n int) *string {
	if loc[2*n] < 0 {
		return nil
	}
	v := s[loc[2*n]:loc[2*n+1]]
	return &v
}

func group(s string, loc []int, n int) string {
	if v := optionalGroup(s, loc, n); v != nil {
		return *v
	}
	return ""
}
