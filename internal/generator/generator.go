package generator

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/coderguy16/sales-report-automation/internal/config"
	"github.com/coderguy16/sales-report-automation/internal/exporter"
	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

// ProductCodes are the raw product codes the generator emits
var ProductCodes = []string{"laptop A", "laptop B", "laptop C", "laptop D"}

// DateLayouts are the order date formats mixed into the raw file
var DateLayouts = []string{"2006-01-02", "01/02/2006", "02-Jan-2006"}

const (
	minQuantity = 1
	maxQuantity = 50
	minPrice    = 10.0
	maxPrice    = 500.0
	dateWindow  = 365 * 24 * time.Hour
)

var (
	regions   = []string{"AA", "AE", "AP"}
	shipNames = []string{"Harris", "Jones", "Smith", "Brown"}
)

// Option configures a Generator
type Option func(*Generator)

// WithClock sets the time the generated order dates count back from
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator produces synthetic, deliberately messy raw sales data. Two
// generators with the same configuration and clock produce the same rows.
type Generator struct {
	cfg    config.PipelineConfig
	seed   int64
	now    func() time.Time
	writer *exporter.CSVWriter
	logger *slog.Logger
}

// NewGenerator creates a generator for cfg. A zero cfg.Seed derives the
// seed from the clock.
func NewGenerator(cfg config.PipelineConfig, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		cfg:    cfg,
		seed:   cfg.Seed,
		now:    time.Now,
		writer: exporter.NewCSVWriter("", logger),
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	return g
}

// Seed returns the seed the generator draws from
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate returns cfg.Records rows, then blanks cfg.NullRows of them and
// appends cfg.DuplicateRows copies of randomly chosen rows.
func (g *Generator) Generate() []domain.RawRecord {
	fake := gofakeit.New(uint64(g.seed))
	now := g.now().UTC()

	// Blanked rows turn the numeric columns into floats in the export.
	floatQuantities := g.cfg.NullRows > 0

	records := make([]domain.RawRecord, 0, g.cfg.Records+g.cfg.DuplicateRows)
	for i := 0; i < g.cfg.Records; i++ {
		records = append(records, g.record(fake, now, floatQuantities))
	}

	nulls := min(g.cfg.NullRows, len(records))
	for _, idx := range perm(fake, len(records))[:nulls] {
		records[idx] = domain.RawRecord{}
	}

	dups := min(g.cfg.DuplicateRows, len(records))
	for _, idx := range perm(fake, len(records))[:dups] {
		records = append(records, records[idx])
	}

	g.logger.Debug("generated raw sales data",
		slog.Int64("seed", g.seed),
		slog.Int("records", g.cfg.Records),
		slog.Int("null_rows", nulls),
		slog.Int("duplicate_rows", dups))

	return records
}

// WriteCSV writes records under the raw header to path and returns the
// path written
func (g *Generator) WriteCSV(path string, records []domain.RawRecord) (string, error) {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Fields()
	}
	written, err := g.writer.WriteCSV(path, exporter.WriteOptions{
		Headers: domain.RawHeader,
		Records: rows,
	})
	if err != nil {
		return "", fmt.Errorf("write raw sales data: %w", err)
	}
	return written, nil
}

func (g *Generator) record(fake *gofakeit.Faker, now time.Time, floatQuantities bool) domain.RawRecord {
	quantity := strconv.Itoa(fake.Number(minQuantity, maxQuantity))
	if floatQuantities {
		quantity += ".0"
	}

	price := decimal.NewFromFloat(fake.Price(minPrice, maxPrice)).Round(2)

	orderedAt := now.Add(-time.Duration(fake.Number(0, int(dateWindow))))

	var email string
	switch fake.Number(0, 2) {
	case 0:
		email = fake.Email()
	case 1:
		email = "invalid"
	}

	return domain.RawRecord{
		OrderID:   fake.UUID(),
		Customer:  strings.ToUpper(fake.FirstName() + " " + fake.LastName()),
		Product:   fake.RandomString(ProductCodes),
		Quantity:  quantity,
		Price:     price.String(),
		OrderDate: orderedAt.Format(fake.RandomString(DateLayouts)),
		Email:     email,
		Address:   address(fake),
	}
}

// address returns a single-line postal address. About three in twenty are
// overseas military addresses, in shapes the cleaner may not recognize.
func address(fake *gofakeit.Faker) string {
	zip := fake.Zip()
	switch fake.Number(0, 19) {
	case 0:
		return fmt.Sprintf("PSC %04d, Box %04d, APO %s %s", fake.Number(0, 9999), fake.Number(0, 9999), fake.RandomString(regions), zip)
	case 1:
		return fmt.Sprintf("Unit %04d Box %04d, DPO %s %s", fake.Number(0, 9999), fake.Number(0, 9999), fake.RandomString(regions), zip)
	case 2:
		return fmt.Sprintf("USNS %s, FPO %s %s", fake.RandomString(shipNames), fake.RandomString(regions), zip)
	}

	street := fake.Street()
	if fake.Number(0, 3) == 0 {
		street += fmt.Sprintf(" Apt. %d", fake.Number(1, 999))
	}
	return fmt.Sprintf("%s, %s, %s %s", street, fake.City(), fake.StateAbr(), zip)
}

// perm returns a shuffled list of the indexes 0..n-1
func perm(fake *gofakeit.Faker, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	fake.ShuffleInts(idx)
	return idx
}
