// Package report derives the yearly consistency reports: the numeric range
// an entity class actually used, the gaps in it, and completeness metrics
// for the records present. Decrees are keyed by decree number, publications
// by bulletin number, objections by their sequencer number.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
)

// Kind selects the entity class a report covers.
type Kind string

const (
	KindDecree      Kind = "decree"
	KindPublication Kind = "publication"
	KindObjection   Kind = "objection"
)

// Range is a run of consecutive missing numbers, inclusive on both ends.
type Range struct {
	Start int
	End   int
}

// Display renders a range the way the printed reports do: a bare number,
// or "start الى end" for a real run.
func (r Range) Display() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d الى %d", r.Start, r.End)
}

// Report is the full yearly summary for one entity class.
type Report struct {
	Kind Kind
	Year int

	Total       int
	FirstNumber int
	LastNumber  int
	FirstDate   time.Time
	LastDate    time.Time

	Missing        []int
	MissingRanges  []Range
	MissingDisplay string
	TotalMissing   int

	WithoutFile    int64
	WithoutImage   int64
	WithoutReceipt int64
	WithoutData    int64
	StatusCounts   map[int]int64
}

// Store is the slice of the repository the generator reads.
type Store interface {
	DecreeNumbersByYear(ctx context.Context, year int) ([]db.NumberedRecord, error)
	DecreeYearCounts(ctx context.Context, year int) (*db.YearCounts, error)
	PublicationNumbersByYear(ctx context.Context, year int) ([]db.NumberedRecord, error)
	PublicationYearCounts(ctx context.Context, year int) (*db.YearCounts, error)
	ObjectionNumbersByYear(ctx context.Context, year int) ([]db.NumberedRecord, error)
	ObjectionYearCounts(ctx context.Context, year int) (*db.YearCounts, error)
}

type source struct {
	numbers func(Store, context.Context, int) ([]db.NumberedRecord, error)
	counts  func(Store, context.Context, int) (*db.YearCounts, error)
}

// One fixed source per kind; an unknown kind is a caller error, not a
// reflection lookup.
var sources = map[Kind]source{
	KindDecree: {
		numbers: Store.DecreeNumbersByYear,
		counts:  Store.DecreeYearCounts,
	},
	KindPublication: {
		numbers: Store.PublicationNumbersByYear,
		counts:  Store.PublicationYearCounts,
	},
	KindObjection: {
		numbers: Store.ObjectionNumbersByYear,
		counts:  Store.ObjectionYearCounts,
	},
}

type Generator struct {
	store Store
}

func NewGenerator(store Store) *Generator {
	return &Generator{store: store}
}

// Build computes the report for one kind and year. A year with no records
// yields a zeroed report with no ranges.
func (g *Generator) Build(ctx context.Context, kind Kind, year int) (*Report, error) {
	src, ok := sources[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown report kind %q", e.ErrInvalidInput, kind)
	}

	records, err := src.numbers(g.store, ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s numbers: %w", kind, err)
	}

	rep := &Report{Kind: kind, Year: year, Total: len(records)}
	if len(records) > 0 {
		first, last := records[0], records[len(records)-1]
		rep.FirstNumber, rep.FirstDate = first.Number, first.Date
		rep.LastNumber, rep.LastDate = last.Number, last.Date

		rep.Missing = missingNumbers(records)
		rep.MissingRanges = CompressRanges(rep.Missing)
		rep.MissingDisplay = FormatRanges(rep.MissingRanges)
		rep.TotalMissing = len(rep.Missing)
	}

	counts, err := src.counts(g.store, ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s counts: %w", kind, err)
	}
	rep.WithoutFile = counts.WithoutFile
	rep.WithoutImage = counts.WithoutImage
	rep.WithoutReceipt = counts.WithoutReceipt
	rep.WithoutData = counts.WithoutData
	rep.StatusCounts = counts.Status

	return rep, nil
}

// missingNumbers is the ideal range [first, last] minus the numbers present.
// Records arrive sorted ascending, so the result is already sorted.
func missingNumbers(records []db.NumberedRecord) []int {
	present := make(map[int]struct{}, len(records))
	for _, rec := range records {
		present[rec.Number] = struct{}{}
	}
	first := records[0].Number
	last := records[len(records)-1].Number

	var missing []int
	for n := first; n <= last; n++ {
		if _, ok := present[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// CompressRanges merges runs of consecutive numbers. Input must be sorted
// ascending.
func CompressRanges(numbers []int) []Range {
	if len(numbers) == 0 {
		return nil
	}
	var ranges []Range
	current := Range{Start: numbers[0], End: numbers[0]}
	for _, n := range numbers[1:] {
		if n == current.End+1 {
			current.End = n
			continue
		}
		ranges = append(ranges, current)
		current = Range{Start: n, End: n}
	}
	return append(ranges, current)
}

// FormatRanges joins the compressed ranges for display.
func FormatRanges(ranges []Range) string {
	if len(ranges) == 0 {
		return ""
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.Display()
	}
	return strings.Join(parts, ", ")
}
