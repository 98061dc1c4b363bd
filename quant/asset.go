package quant

import (
	"fmt"
	"strings"
)

// AssetClass selects the threshold table used by the classifiers.
type AssetClass string

const (
	Stock  AssetClass = "Stock"
	Crypto AssetClass = "Crypto"
)

// fiatSuffixes mark a crypto pair quoted in fiat or a stablecoin, e.g. BTC-USD.
var fiatSuffixes = []string{"-USD", "-USDT", "-USDC", "-EUR", "-GBP", "-JPY"}

// NormalizeTicker trims and upper-cases a user supplied symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// InferAssetClass guesses the asset class from the ticker shape.
func InferAssetClass(ticker string) AssetClass {
	t := NormalizeTicker(ticker)
	for _, suffix := range fiatSuffixes {
		if strings.HasSuffix(t, suffix) && len(t) > len(suffix) {
			return Crypto
		}
	}
	return Stock
}

// ParseAssetClass accepts "stock" or "crypto" in any case. An empty string
// falls back to inference from the ticker.
func ParseAssetClass(s, ticker string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return InferAssetClass(ticker), nil
	case "stock", "stocks", "equity":
		return Stock, nil
	case "crypto":
		return Crypto, nil
	default:
		return "", fmt.Errorf("asset class %q: %w", s, ErrInvalidParameter)
	}
}
