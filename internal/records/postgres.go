package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresSource reads publication rows from a Postgres table with the
// columns year, authors, author_ids, authors_with_affiliations and title.
// Rows are read in order of an id column, which the table must also have.
// The table name may be schema qualified, as in "public.publications".
type PostgresSource struct {
	db    *sql.DB
	table string
}

// DialPostgres creates a lib/pq pool without connecting; the first query
// opens the connection.
func DialPostgres(dsn, table string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgresSource(db, table), nil
}

// OpenPostgres connects with lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresSource, error) {
	s, err := DialPostgres(dsn, table)
	if err != nil {
		return nil, err
	}
	if err := s.db.PingContext(ctx); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return s, nil
}

// NewPostgresSource wraps an existing connection pool.
func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = "publications"
	}
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) query() string {
	return `SELECT year::text, authors, author_ids, authors_with_affiliations, title FROM ` +
		quoteTable(s.table) + ` ORDER BY id`
}

// quoteTable quotes each dot-separated part of a possibly schema-qualified
// table name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// Records reads every row. NULL columns read as empty strings, which Parse
// treats as missing.
func (s *PostgresSource) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var year, authors, ids, affs, title sql.NullString
		if err := rows.Scan(&year, &authors, &ids, &affs, &title); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		recs = append(recs, Record{
			Year:                    year.String,
			Authors:                 authors.String,
			AuthorIDs:               ids.String,
			AuthorsWithAffiliations: affs.String,
			Title:                   title.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return recs, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
