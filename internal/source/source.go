// Package source fetches the raw survey table from wherever the responses
// are kept. Every fetch failure is reported as a ranking.SourceUnavailableError.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MikeSquared-Agency/DinnerClub/internal/config"
	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
	"github.com/MikeSquared-Agency/DinnerClub/internal/secrets"
)

// Source yields a header row plus data rows as strings.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*ranking.Table, error)
}

// New builds the source selected by cfg.Kind. Credentials are resolved
// through p; none are read from files named in configuration.
func New(ctx context.Context, cfg config.SourceConfig, p secrets.Provider) (Source, error) {
	switch cfg.Kind {
	case config.SourceSheets:
		creds, err := p.Secret(ctx, cfg.Sheets.CredentialsSecret)
		if err != nil {
			return nil, fmt.Errorf("sheets credentials: %w", err)
		}
		svc, err := NewSheetsService(ctx, creds)
		if err != nil {
			return nil, err
		}
		return NewSheets(svc, cfg.Sheets.SpreadsheetID, cfg.Sheets.Sheet), nil

	case config.SourceS3:
		accessKey, err := secrets.Optional(ctx, p, cfg.S3.AccessKeySecret)
		if err != nil {
			return nil, fmt.Errorf("s3 access key: %w", err)
		}
		secretKey, err := secrets.Optional(ctx, p, cfg.S3.SecretKeySecret)
		if err != nil {
			return nil, fmt.Errorf("s3 secret key: %w", err)
		}
		client, err := NewS3Client(cfg.S3.Region, accessKey, secretKey)
		if err != nil {
			return nil, err
		}
		return NewS3(client, cfg.S3.Bucket, cfg.S3.Key), nil

	case config.SourcePostgres:
		url, err := p.Secret(ctx, cfg.Postgres.URLSecret)
		if err != nil {
			return nil, fmt.Errorf("postgres url: %w", err)
		}
		return NewPostgres(ctx, string(url), cfg.Postgres.Table)

	case config.SourceFile:
		return NewFile(cfg.File.Path), nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// readCSV parses a CSV document whose first record is the header. Records may
// have differing lengths; ranking.NewTable pads or truncates them.
func readCSV(r io.Reader) (*ranking.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return ranking.FromRecords(records), nil
}
