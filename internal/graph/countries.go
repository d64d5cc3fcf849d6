package graph

import "sort"

// TopCountries is the number of countries highlighted in the legend.
const TopCountries = 10

// OtherCountry labels every country outside the highlighted set.
const OtherCountry = "Other"

// CountryStats is the per-country node tally. It is presentation data only
// and plays no part in the layout.
type CountryStats struct {
	Counts map[string]int `json:"counts"`
	// Order lists countries as first encountered while tallying nodes.
	Order []string `json:"order"`
	// Top holds up to TopCountries countries by descending count; ties keep
	// tally order.
	Top        []string `json:"top"`
	OtherCount int      `json:"other"`

	highlighted map[string]struct{}
}

func tallyCountries(nodes []Node) CountryStats {
	st := CountryStats{Counts: make(map[string]int)}
	for _, n := range nodes {
		if _, ok := st.Counts[n.Country]; !ok {
			st.Order = append(st.Order, n.Country)
		}
		st.Counts[n.Country]++
	}

	ranked := make([]string, len(st.Order))
	copy(ranked, st.Order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return st.Counts[ranked[i]] > st.Counts[ranked[j]]
	})
	if len(ranked) > TopCountries {
		ranked = ranked[:TopCountries]
	}
	st.Top = ranked

	st.highlighted = make(map[string]struct{}, len(st.Top))
	for _, c := range st.Top {
		st.highlighted[c] = struct{}{}
	}
	for c, n := range st.Counts {
		if _, ok := st.highlighted[c]; !ok {
			st.OtherCount += n
		}
	}
	return st
}

// IsHighlighted reports whether country is among the top countries.
func (s CountryStats) IsHighlighted(country string) bool {
	_, ok := s.highlighted[country]
	return ok
}

// Group returns country itself when highlighted, otherwise OtherCountry.
func (s CountryStats) Group(country string) string {
	if s.IsHighlighted(country) {
		return country
	}
	return OtherCountry
}
