package records

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		ok     bool
		want   Publication
	}{
		{
			name: "complete record",
			rec: Record{
				Year:                    "2020",
				Authors:                 "A, B",
				AuthorIDs:               "1;2",
				AuthorsWithAffiliations: "Aff1, USA; Aff2, USA",
				Title:                   "P1",
			},
			ok: true,
			want: Publication{
				Year:         "2020",
				Title:        "P1",
				Authors:      []string{"A", "B"},
				AuthorIDs:    []string{"1", "2"},
				Affiliations: []string{"Aff1, USA", " Aff2, USA"},
			},
		},
		{
			name: "missing year",
			rec:  Record{Authors: "A", AuthorIDs: "1", AuthorsWithAffiliations: "Aff, USA", Title: "P"},
			ok:   false,
		},
		{
			name: "whitespace year",
			rec:  Record{Year: "  ", Authors: "A", AuthorIDs: "1", AuthorsWithAffiliations: "Aff, USA"},
			ok:   false,
		},
		{
			name: "missing authors",
			rec:  Record{Year: "2021", AuthorIDs: "1", AuthorsWithAffiliations: "Aff, USA"},
			ok:   false,
		},
		{
			name: "missing affiliations",
			rec:  Record{Year: "2021", Authors: "A", AuthorIDs: "1"},
			ok:   false,
		},
		{
			name: "missing ids is accepted",
			rec:  Record{Year: "2021", Authors: "A", AuthorsWithAffiliations: "Aff, USA", Title: "P"},
			ok:   true,
			want: Publication{
				Year:         "2021",
				Title:        "P",
				Authors:      []string{"A"},
				AuthorIDs:    []string{""},
				Affiliations: []string{"Aff, USA"},
			},
		},
		{
			name: "unequal lengths are kept as is",
			rec:  Record{Year: "2019", Authors: "A, B, C", AuthorIDs: " 1 ; 2 ", AuthorsWithAffiliations: "X, FR", Title: "Q"},
			ok:   true,
			want: Publication{
				Year:         "2019",
				Title:        "Q",
				Authors:      []string{"A", "B", "C"},
				AuthorIDs:    []string{"1", "2"},
				Affiliations: []string{"X, FR"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.rec)
			if ok != tt.ok {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	recs := []Record{
		{Year: "2020", Authors: "A", AuthorIDs: "1", AuthorsWithAffiliations: "Aff, USA", Title: "P1"},
		{Authors: "B", AuthorIDs: "2", AuthorsWithAffiliations: "Aff, UK", Title: "P2"},
		{Year: "2021", Authors: "C", AuthorIDs: "3", AuthorsWithAffiliations: "Aff, DE", Title: "P3"},
	}
	pubs, st := ParseAll(recs)
	if st.Accepted != 2 || st.Rejected != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if len(pubs) != 2 || pubs[0].Title != "P1" || pubs[1].Title != "P3" {
		t.Fatalf("unexpected publications %+v", pubs)
	}
}

func TestAt(t *testing.T) {
	list := []string{"a", "b"}
	if At(list, 1) != "b" {
		t.Error("expected in-range lookup")
	}
	if At(list, 2) != "" || At(list, -1) != "" {
		t.Error("expected empty string out of range")
	}
}
