package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

// Postgres reads responses from a table whose column names are the survey
// headers, e.g. one loaded by a form-to-database integration.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgres(ctx context.Context, databaseURL, table string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool, table: table}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Fetch(ctx context.Context) (*ranking.Table, error) {
	ident := pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
	rows, err := p.pool.Query(ctx, `SELECT * FROM `+ident)
	if err != nil {
		return nil, ranking.Unavailable(p.Name(), p.table, err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	header := make([]string, len(fds))
	for i, fd := range fds {
		header[i] = fd.Name
	}

	var data [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, ranking.Unavailable(p.Name(), p.table, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = pgString(v)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, ranking.Unavailable(p.Name(), p.table, err)
	}
	return ranking.NewTable(header, data), nil
}

// pgString renders a decoded column value the way it would appear in a CSV
// export. NULL becomes an empty cell, which coerces to a missing score.
func pgString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []byte:
		return string(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case time.Time:
		return c.Format(time.RFC3339)
	case pgtype.Numeric:
		if !c.Valid {
			return ""
		}
		f, err := c.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
