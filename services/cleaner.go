package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"superhost-analysis/models"
	"superhost-analysis/utils"
)

const (
	colPrice       = "price"
	colPriceDollar = "price_dollar"
	naToken        = "NaN"
)

var (
	// priceRegexp captures signed price values such as "1,234.00" or "-5.00"
	priceRegexp = regexp.MustCompile(`-?[\d,]+(?:\.\d+)?`)

	textColumns       = []string{"id", "host_id"}
	percentageColumns = []string{"host_response_rate", "host_acceptance_rate"}
)

// CleanOptions controls the thresholds and column lists used by the Cleaner.
type CleanOptions struct {
	DropKeywords      []string
	NADropThreshold   float64
	MaxPrice          float64
	IrrelevantColumns []string
}

// DefaultCleanOptions returns the thresholds the Amsterdam analysis was built with.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		DropKeywords:    []string{"_url", "scrape"},
		NADropThreshold: 0.9,
		MaxPrice:        8000,
		IrrelevantColumns: []string{
			"neighbourhood",
			"price",
			"minimum_nights",
			"minimum_minimum_nights",
			"minimum_maximum_nights",
			"maximum_nights",
			"maximum_maximum_nights",
			"maximum_minimum_nights",
			"has_availability",
			"availability_30",
			"availability_60",
			"availability_90",
		},
	}
}

// Cleaner turns the raw listings table into a typed, filtered table.
// Every step returns a new DataFrame; the input is never modified.
type Cleaner struct {
	logger *utils.Logger
	opts   CleanOptions
}

// NewCleaner creates a Cleaner with the given logger and options.
func NewCleaner(logger *utils.Logger, opts CleanOptions) *Cleaner {
	return &Cleaner{logger: logger, opts: opts}
}

// Clean runs the full cleaning sequence and reports what was dropped.
func (c *Cleaner) Clean(raw dataframe.DataFrame) (dataframe.DataFrame, *models.CleanReport, error) {
	if raw.Err != nil {
		return raw, nil, fmt.Errorf("cleaner: input table: %w", raw.Err)
	}
	report := &models.CleanReport{
		DroppedByKeyword: make(map[string][]string),
		RowsIn:           raw.Nrow(),
	}

	df := raw
	for _, kw := range c.opts.DropKeywords {
		var dropped []string
		df, dropped = DropColumnsContaining(df, kw)
		report.DroppedByKeyword[kw] = dropped
		c.logger.Info("[cleaner] Dropping columns containing %q: %s", kw, joinOrNone(dropped))
	}

	if !hasColumn(df, colPrice) {
		return df, report, fmt.Errorf("cleaner: %w: %s", ErrMissingColumn, colPrice)
	}
	df = mutateFloat(df, colPriceDollar, df.Col(colPrice), parsePrice)

	for _, name := range textColumns {
		if !hasColumn(df, name) {
			c.logger.Debug("[cleaner] Column %s not present, skipping text cast", name)
			continue
		}
		df = mutateText(df, name)
	}

	for _, name := range percentageColumns {
		if !hasColumn(df, name) {
			c.logger.Debug("[cleaner] Column %s not present, skipping percentage parse", name)
			continue
		}
		df = mutateFloat(df, name, df.Col(name), parsePercent)
	}

	df = ConvertBooleanColumns(df)

	before := df.Nrow()
	df = df.Filter(dataframe.F{Colname: colPriceDollar, Comparator: series.Greater, Comparando: 0.0})
	report.NonPositivePrice = before - df.Nrow()

	var dropped []string
	df, dropped = DropMissingColumns(df, c.opts.NADropThreshold)
	report.DroppedMissing = dropped
	if len(dropped) > 0 {
		c.logger.Info("[cleaner] Columns with %.0f%% or more missing values dropped: %s",
			c.opts.NADropThreshold*100, strings.Join(dropped, ", "))
	} else {
		c.logger.Info("[cleaner] No columns were dropped for missing values")
	}

	before = df.Nrow()
	df = df.Filter(dataframe.F{Colname: colPriceDollar, Comparator: series.Less, Comparando: c.opts.MaxPrice})
	report.ExcessivePrice = before - df.Nrow()

	present := presentColumns(df, c.opts.IrrelevantColumns)
	if len(present) > 0 {
		df = df.Drop(present)
	}
	report.DroppedIrrelevant = present

	if df.Err != nil {
		return df, report, fmt.Errorf("cleaner: %w", df.Err)
	}

	report.RowsOut = df.Nrow()
	c.logger.Info("[cleaner] Cleaned %d → %d listings (price <= 0: %d, price >= %.0f: %d)",
		report.RowsIn, report.RowsOut, report.NonPositivePrice, c.opts.MaxPrice, report.ExcessivePrice)
	return df, report, nil
}

// DropColumnsContaining returns a table without the columns whose name contains keyword.
func DropColumnsContaining(df dataframe.DataFrame, keyword string) (dataframe.DataFrame, []string) {
	var matched []string
	for _, name := range df.Names() {
		if strings.Contains(name, keyword) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return df, nil
	}
	return df.Drop(matched), matched
}

// DropMissingColumns returns a table without the columns whose fraction of
// missing values is at or above threshold, plus the dropped names in table order.
func DropMissingColumns(df dataframe.DataFrame, threshold float64) (dataframe.DataFrame, []string) {
	nrow := df.Nrow()
	if nrow == 0 {
		return df, nil
	}

	var dropped []string
	for _, name := range df.Names() {
		missing := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				missing++
			}
		}
		if float64(missing)/float64(nrow) >= threshold {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) == 0 {
		return df, nil
	}
	return df.Drop(dropped), dropped
}

// ConvertBooleanColumns turns every text column whose non-missing values are
// exactly {"t", "f"} into a boolean column. Missing values stay missing.
func ConvertBooleanColumns(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		col := df.Col(name)
		if col.Type() != series.String {
			continue
		}
		if !isTrueFalseColumn(col) {
			continue
		}

		records := col.Records()
		na := col.IsNaN()
		values := make([]string, len(records))
		for i, r := range records {
			switch {
			case na[i]:
				values[i] = naToken
			case r == "t":
				values[i] = "true"
			default:
				values[i] = "false"
			}
		}
		df = df.Mutate(series.New(values, series.Bool, name))
	}
	return df
}

func isTrueFalseColumn(col series.Series) bool {
	distinct := make(map[string]struct{}, 2)
	na := col.IsNaN()
	for i, r := range col.Records() {
		if na[i] {
			continue
		}
		distinct[r] = struct{}{}
		if len(distinct) >= 5 {
			return false
		}
	}
	if len(distinct) != 2 {
		return false
	}
	_, hasT := distinct["t"]
	_, hasF := distinct["f"]
	return hasT && hasF
}

// parsePrice extracts a dollar amount from strings like "$1,234.00".
func parsePrice(raw string) (float64, bool) {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// parsePercent converts "50%" to 0.5.
func parsePercent(raw string) (float64, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return val / 100, true
}

func mutateFloat(df dataframe.DataFrame, name string, src series.Series, parse func(string) (float64, bool)) dataframe.DataFrame {
	records := src.Records()
	na := src.IsNaN()
	values := make([]string, len(records))
	for i, r := range records {
		if na[i] {
			values[i] = naToken
			continue
		}
		f, ok := parse(r)
		if !ok {
			values[i] = naToken
			continue
		}
		values[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return df.Mutate(series.New(values, series.Float, name))
}

func mutateText(df dataframe.DataFrame, name string) dataframe.DataFrame {
	col := df.Col(name)
	records := col.Records()
	na := col.IsNaN()
	values := make([]string, len(records))
	for i, r := range records {
		if na[i] {
			values[i] = naToken
			continue
		}
		values[i] = strings.TrimSuffix(strings.TrimSpace(r), ".0")
	}
	return df.Mutate(series.New(values, series.String, name))
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func presentColumns(df dataframe.DataFrame, names []string) []string {
	var present []string
	for _, name := range names {
		if hasColumn(df, name) {
			present = append(present, name)
		}
	}
	return present
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
