package models

// Asset describes a tradable instrument and its contract specification.
// The catalog is static for the process lifetime and never persisted.
type Asset struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	PointValue   float64 `json:"point_value"`
	Currency     string  `json:"currency"`
	ContractSize string  `json:"contract_size"`
	Description  string  `json:"description"`
}

var assetCatalog = []Asset{
	{
		Symbol:       "XAUUSD",
		Name:         "Gold",
		PointValue:   100.0,
		Currency:     "$",
		ContractSize: "100 oz",
		Description:  "1 point = $100 per standard lot",
	},
	{
		Symbol:       "DJ30",
		Name:         "Dow Jones 30",
		PointValue:   5.0,
		Currency:     "$",
		ContractSize: "1 point = $5",
		Description:  "Typical value: $1-5 per point",
	},
	{
		Symbol:       "DAX40",
		Name:         "DAX 40",
		PointValue:   25.0,
		Currency:     "€",
		ContractSize: "1 point = 25€",
		Description:  "Typical value: 1-25€ per point",
	},
	{
		Symbol:       "NAS100",
		Name:         "Nasdaq 100",
		PointValue:   20.0,
		Currency:     "$",
		ContractSize: "1 point = $20",
		Description:  "Typical value: $1-20 per point",
	},
	{
		Symbol:       "BTCUSD",
		Name:         "Bitcoin",
		PointValue:   1.0,
		Currency:     "$",
		ContractSize: "1 coin",
		Description:  "$1 move = $1 PnL per coin",
	},
	{
		Symbol:       "ETHUSD",
		Name:         "Ethereum",
		PointValue:   1.0,
		Currency:     "$",
		ContractSize: "1 coin",
		Description:  "$1 move = $1 PnL per coin",
	},
}

// Assets returns the full catalog in display order.
func Assets() []Asset {
	out := make([]Asset, len(assetCatalog))
	copy(out, assetCatalog)
	return out
}

// AssetBySymbol looks up an asset definition by its symbol.
func AssetBySymbol(symbol string) (Asset, bool) {
	for _, a := range assetCatalog {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

// ValidAsset reports whether symbol is part of the catalog.
func ValidAsset(symbol string) bool {
	_, ok := AssetBySymbol(symbol)
	return ok
}
