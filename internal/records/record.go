// Package records reads raw publication rows and normalises them into the
// parallel author, id and affiliation lists the graph builder consumes.
package records

import (
	"context"
	"strings"
)

// Column names of the publication export.
const (
	ColumnYear         = "Year"
	ColumnAuthors      = "Authors"
	ColumnAuthorIDs    = "Author(s) ID"
	ColumnTitle        = "Title"
	ColumnAffiliations = "Authors with affiliations"
)

// Record is one raw publication row.
type Record struct {
	Year                    string
	Authors                 string
	AuthorIDs               string
	AuthorsWithAffiliations string
	Title                   string
}

// Publication is an accepted record split into positionally aligned lists.
// The lists may differ in length; consumers only index within bounds.
type Publication struct {
	Year         string
	Title        string
	Authors      []string
	AuthorIDs    []string
	Affiliations []string
}

// Source yields raw publication records.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Stats counts the outcome of parsing a batch of records.
type Stats struct {
	Accepted int
	Rejected int
}

// Parse normalises r. It reports false when the year, author list or
// affiliation list is missing; such records are excluded entirely.
func Parse(r Record) (Publication, bool) {
	if blank(r.Year) || blank(r.Authors) || blank(r.AuthorsWithAffiliations) {
		return Publication{}, false
	}

	return Publication{
		Year:         strings.TrimSpace(r.Year),
		Title:        r.Title,
		Authors:      splitTrim(r.Authors, ","),
		AuthorIDs:    splitTrim(r.AuthorIDs, ";"),
		Affiliations: strings.Split(r.AuthorsWithAffiliations, ";"),
	}, true
}

// ParseAll parses every record, keeping input order and dropping rejects.
func ParseAll(recs []Record) ([]Publication, Stats) {
	pubs := make([]Publication, 0, len(recs))
	var st Stats
	for _, r := range recs {
		p, ok := Parse(r)
		if !ok {
			st.Rejected++
			continue
		}
		pubs = append(pubs, p)
		st.Accepted++
	}
	return pubs, st
}

// At returns list[i], or "" when i is out of range.
func At(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
