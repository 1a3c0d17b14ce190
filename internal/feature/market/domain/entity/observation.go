package entity

// Observation is one decoded record of a market snapshot.
// Fields the feed did not send stay nil/empty so that a merge can keep
// the last known value instead of zeroing it.
type Observation struct {
	ID                    string
	Name                  string
	Image                 string
	CurrentPrice          *float64
	MarketCap             *float64
	MarketCapChangePct24h *float64
	PriceChangePct24h     *float64
}
