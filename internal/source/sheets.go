package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

// Sheets reads responses from a Google Sheets worksheet, typically the one a
// Google Form writes its responses to.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
}

// NewSheetsService creates a read-only Sheets client from service-account
// credentials JSON. Extra options are appended after the credentials.
func NewSheetsService(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*sheets.Service, error) {
	base := []option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	svc, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return svc, nil
}

// NewSheets reads sheet from spreadsheetID. An empty sheet name selects the
// first worksheet.
func NewSheets(svc *sheets.Service, spreadsheetID, sheet string) *Sheets {
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) Fetch(ctx context.Context) (*ranking.Table, error) {
	title := s.sheet
	if title == "" {
		ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		if err != nil {
			return nil, s.unavailable(err)
		}
		if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
			return nil, s.unavailable(errors.New("spreadsheet has no worksheets"))
		}
		title = ss.Sheets[0].Properties.Title
	}

	vr, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(title)).Context(ctx).Do()
	if err != nil {
		return nil, s.unavailable(err)
	}

	records := make([][]string, 0, len(vr.Values))
	for _, row := range vr.Values {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = cellString(cell)
		}
		records = append(records, rec)
	}
	return ranking.FromRecords(records), nil
}

func (s *Sheets) unavailable(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			err = fmt.Errorf("spreadsheet not found, check the id and sharing permissions: %w", err)
		case http.StatusForbidden:
			err = fmt.Errorf("spreadsheet not shared with the service account: %w", err)
		}
	}
	return ranking.Unavailable(s.Name(), s.spreadsheetID, err)
}

// quoteSheet turns a worksheet title into an A1 range covering the whole sheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}
