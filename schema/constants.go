// Package schema has models, enums and errors for all parts of archivepulse.
package schema

import "fmt"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// StatusClass represents a normalized HTTP status class like "2xx".
	StatusClass string

	// ContentState represents how a day's representative capture compares to the previous day.
	ContentState string

	// FillPolicy represents how synthesized gap days pick their specimen.
	FillPolicy string

	// Category keys a sigmoid parameter set for curve generation.
	Category string

	// Period represents a sampling granularity.
	Period string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Status classes. NoData is the explicit absence of a class.
const (
	NoData    StatusClass = ""
	Status2xx StatusClass = "2xx"
	Status3xx StatusClass = "3xx"
	Status4xx StatusClass = "4xx"
	Status5xx StatusClass = "5xx"
)

// Content states.
const (
	ContentUnknown   ContentState = "Unknown"
	ContentChanged   ContentState = "Changed"
	ContentUnchanged ContentState = "Unchanged"
)

// Fill policies.
const (
	FillIdentical FillPolicy = "identical" // default
	FillClosest   FillPolicy = "closest"
	FillForward   FillPolicy = "forward"
	FillBackward  FillPolicy = "backward"
)

// Curve categories. NoDataCategory drives resilience on days without a specimen.
const (
	Category2xx       Category = "2xx"
	Category3xx       Category = "3xx"
	Category4xx       Category = "4xx"
	Category5xx       Category = "5xx"
	NoDataCategory    Category = "~"
	ChangedCategory   Category = "Changed"
	UnchangedCategory Category = "Unchanged"
	UnknownCategory   Category = "Unknown"
)

// Sampling periods, finest first.
const (
	PeriodSecond Period = "Second"
	PeriodMinute Period = "Minute"
	PeriodHour   Period = "Hour"
	PeriodDay    Period = "Day"
	PeriodMonth  Period = "Month"
	PeriodYear   Period = "Year"
)

// NoDataMarker is how an absent value is rendered at the presentation edge.
const NoDataMarker = "~"

// KnownClasses lists the four status classes in display order.
var KnownClasses = []StatusClass{Status2xx, Status3xx, Status4xx, Status5xx}

// AllPeriods lists the sampling periods finest first with their timestamp prefix length.
var AllPeriods = []struct {
	Period Period
	Prefix int
}{
	{PeriodSecond, 14},
	{PeriodMinute, 12},
	{PeriodHour, 10},
	{PeriodDay, 8},
	{PeriodMonth, 6},
	{PeriodYear, 4},
}

// AllCategories lists every curve category.
var AllCategories = []Category{
	Category2xx, Category3xx, Category4xx, Category5xx,
	NoDataCategory, ChangedCategory, UnchangedCategory, UnknownCategory,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidFillPolicies lists all valid fill policies.
var ValidFillPolicies = map[FillPolicy]struct{}{
	FillIdentical: {},
	FillClosest:   {},
	FillForward:   {},
	FillBackward:  {},
}

// ValidCategories lists all valid curve categories.
var ValidCategories = map[Category]struct{}{
	Category2xx:       {},
	Category3xx:       {},
	Category4xx:       {},
	Category5xx:       {},
	NoDataCategory:    {},
	ChangedCategory:   {},
	UnchangedCategory: {},
	UnknownCategory:   {},
}

// Known reports whether the class is one of the four tracked classes.
func (s StatusClass) Known() bool {
	switch s {
	case Status2xx, Status3xx, Status4xx, Status5xx:
		return true
	default:
		return false
	}
}

// Category returns the curve category driven by this class.
func (s StatusClass) Category() Category {
	if !s.Known() {
		return NoDataCategory
	}
	return Category(s)
}

// String renders the class, using the no-data marker when absent.
func (s StatusClass) String() string {
	if s == NoData {
		return NoDataMarker
	}
	return string(s)
}

// Category returns the curve category driven by this content state.
func (c ContentState) Category() Category {
	switch c {
	case ContentChanged:
		return ChangedCategory
	case ContentUnchanged:
		return UnchangedCategory
	default:
		return UnknownCategory
	}
}

// SigmoidParams holds the warm-up curve parameters for one category.
type SigmoidParams struct {
	Shift  float64 `json:"shift" mapstructure:"shift"`
	Slope  float64 `json:"slope" mapstructure:"slope"`
	Spread float64 `json:"spread" mapstructure:"spread"`
}

// DefaultSigmoidParams returns a fresh copy of the default per-category parameters.
func DefaultSigmoidParams() map[Category]SigmoidParams {
	return map[Category]SigmoidParams{
		Category2xx:       {Shift: 4, Slope: 1.0, Spread: 1.0},
		Category3xx:       {Shift: 5, Slope: 10.0, Spread: -0.5},
		Category4xx:       {Shift: 5, Slope: 1.0, Spread: -1.0},
		Category5xx:       {Shift: 5, Slope: 1.0, Spread: -1.0},
		NoDataCategory:    {Shift: 10, Slope: 20.0, Spread: -0.5},
		ChangedCategory:   {Shift: 6, Slope: 1.0, Spread: -1.0},
		UnchangedCategory: {Shift: 4, Slope: 1.0, Spread: 1.0},
		UnknownCategory:   {Shift: 10, Slope: 30.0, Spread: -0.5},
	}
}

// ValidateSigmoidParams checks that every category is present with a positive slope
// and a spread within [-1, 1].
func ValidateSigmoidParams(params map[Category]SigmoidParams) error {
	for _, category := range AllCategories {
		p, ok := params[category]
		if !ok {
			return fmt.Errorf("missing sigparams for category '%s'", category)
		}
		if p.Slope <= 0 {
			return fmt.Errorf("sigparams slope for category '%s' must be greater than 0 (received %g)", category, p.Slope)
		}
		if p.Spread < -1 || p.Spread > 1 {
			return fmt.Errorf("sigparams spread for category '%s' must be between -1 and 1 (received %g)", category, p.Spread)
		}
	}
	return nil
}
