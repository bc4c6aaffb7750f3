package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog rows (id,image,name,price,description) and upserts products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Line  int
	ID    string
	Image string
	Name  string
	Price string
	Desc  string
}

var requiredHeaders = []string{"image", "name", "price"}

// Run parses CSV rows and upserts one product per row, in file order.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing column %q", h)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.Line = line
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Image == "" || row.Price == "" {
		return fmt.Errorf("line %d: invalid product row (missing required fields)", row.Line)
	}
	if row.ID != "" {
		if _, err := uuid.Parse(row.ID); err != nil {
			return fmt.Errorf("line %d: invalid id %q: %w", row.Line, row.ID, err)
		}
	}
	price, err := NormalizePrice(row.Price)
	if err != nil {
		return fmt.Errorf("line %d: %w", row.Line, err)
	}

	p := domain.Product{
		ID:          row.ID,
		Image:       row.Image,
		Name:        row.Name,
		Price:       price,
		Description: row.Desc,
	}
	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

// NormalizePrice turns "120", "$120.0" or "NT$ 120" into "$120" style strings. Prices that
// are not numbers or are negative are rejected.
func NormalizePrice(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimLeftFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '-' && r != '.'
	})
	d, err := decimal.NewFromString(strings.TrimSpace(digits))
	if err != nil {
		return "", fmt.Errorf("invalid price %q", raw)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("negative price %q", raw)
	}
	normalized := "$" + d.String()
	if !cartsvc.ParsePrice(normalized).Equal(d) {
		return "", fmt.Errorf("invalid price %q", raw)
	}
	return normalized, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		ID:    pick(record, index, "id"),
		Image: pick(record, index, "image"),
		Name:  pick(record, index, "name"),
		Price: pick(record, index, "price"),
		Desc:  pick(record, index, "description"),
	}
	if row.ID == "" && row.Image == "" && row.Name == "" && row.Price == "" && row.Desc == "" {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
