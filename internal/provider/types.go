package provider

import (
	"time"
)

// Instrument identifies the kind of series requested from the provider
type Instrument string

const (
	// InstrumentPrice is the spot index level (PX_LAST)
	InstrumentPrice Instrument = "px_last"
	// InstrumentYield30Y is the 30-year government bond yield, in percent
	InstrumentYield30Y Instrument = "yield_30y"
	// InstrumentDividend is the index-implied trailing dividend level
	InstrumentDividend Instrument = "dividend"
	// InstrumentDivFuture is an n-year dividend futures price
	InstrumentDivFuture Instrument = "div_future"
)

// FuturesCoverageStart is the first date with dividend-futures coverage.
// The source has no history before 2015; earlier data is absent, not zero.
var FuturesCoverageStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// Index describes one of the three equity indices in the study
type Index struct {
	Ticker      string // index ticker, e.g. "SPX Index"
	YieldTicker string // 30-year government yield ticker for the region
	Name        string
	Region      string // "US", "EU", "JP"
}

var (
	SP500 = Index{
		Ticker:      "SPX Index",
		YieldTicker: "USGG30YR Index",
		Name:        "US Stock Market Index",
		Region:      "US",
	}
	EuroStoxx50 = Index{
		Ticker:      "SX5E Index",
		YieldTicker: "GDBR30 Index",
		Name:        "Euro Stoxx 50 Index",
		Region:      "EU",
	}
	Nikkei225 = Index{
		Ticker:      "NKY Index",
		YieldTicker: "GJGB30 Index",
		Name:        "Nikkei 225 Index",
		Region:      "JP",
	}
)

// Indices returns the three study indices in presentation order
func Indices() []Index {
	return []Index{SP500, EuroStoxx50, Nikkei225}
}

// YieldName maps a yield ticker to its human-readable table label
func YieldName(ticker string) string {
	switch ticker {
	case SP500.YieldTicker:
		return "US 30-Year Gov Bond"
	case EuroStoxx50.YieldTicker:
		return "German 30-Year Gov Bund"
	case Nikkei225.YieldTicker:
		return "Japanese 30-Year Gov Bond"
	default:
		return ticker
	}
}

// Request describes one series pull from the provider
type Request struct {
	Ticker     string     `validate:"required"`
	Instrument Instrument `validate:"required,oneof=px_last yield_30y dividend div_future"`
	Maturity   int        `validate:"gte=0,lte=10"` // years, dividend futures only
	Start      time.Time  `validate:"required"`
	End        time.Time  `validate:"required"`
}
