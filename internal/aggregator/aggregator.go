package aggregator

import (
	"strings"

	"shenanigigs/statistics/internal/models"
)

const (
	RelocationLabel = "Relocation"
	InternshipLabel = "Internship"
)

func Languages(postings []*models.JobPosting) models.Tally {
	return tags(postings, func(p *models.JobPosting) []string { return p.Languages })
}

func Frameworks(postings []*models.JobPosting) models.Tally {
	return tags(postings, func(p *models.JobPosting) []string { return p.Frameworks })
}

func tags(postings []*models.JobPosting, field func(*models.JobPosting) []string) models.Tally {
	c := newCounter()
	for _, posting := range postings {
		for _, tag := range field(posting) {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			c.add(tag)
		}
	}
	return c.tally()
}

// Locations counts work modes. Any posting offering relocation lands in the
// single Relocation bucket; the destination itself is not tallied.
func Locations(postings []*models.JobPosting) models.Tally {
	c := newCounter()
	for _, posting := range postings {
		location := posting.Location
		if location == nil {
			continue
		}
		if location.Relocation != nil {
			c.add(RelocationLabel)
			continue
		}
		if location.Mode == "" {
			continue
		}
		c.add(location.Mode)
	}
	return c.tally()
}

func Titles(postings []*models.JobPosting) models.Tally {
	c := newCounter()
	for _, posting := range postings {
		if posting.Title.Role == "" {
			continue
		}
		c.add(strings.TrimSpace(posting.Title.Role))
	}
	return c.tally()
}

// Seniority counts internships under their own label regardless of any
// seniority word in the title.
func Seniority(postings []*models.JobPosting) models.Tally {
	c := newCounter()
	for _, posting := range postings {
		switch {
		case posting.Title.Internship != nil:
			c.add(InternshipLabel)
		case posting.Title.Seniority != nil:
			c.add(*posting.Title.Seniority)
		}
	}
	return c.tally()
}

func Build(postings []*models.JobPosting) models.Report {
	return models.Report{
		Languages:  Languages(postings),
		Frameworks: Frameworks(postings),
		Locations:  Locations(postings),
		Titles:     Titles(postings),
		Seniority:  Seniority(postings),
		Postings:   len(postings),
	}
}
