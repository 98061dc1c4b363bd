package quant

import "fmt"

// VolatilityBands holds the sigma cut-offs between Low/Medium and Medium/High.
type VolatilityBands struct {
	Medium float64 `yaml:"medium" json:"medium"`
	High   float64 `yaml:"high" json:"high"`
}

// SignalBands holds the percent-change cut-offs. Hold is the half-width of
// the HOLD range, Strong the magnitude past which a signal becomes STRONG.
type SignalBands struct {
	Hold   float64 `yaml:"hold" json:"hold"`
	Strong float64 `yaml:"strong" json:"strong"`
}

// Thresholds bundles every tunable constant of the classifiers and projector.
type Thresholds struct {
	StockVolatility  VolatilityBands `yaml:"stock_volatility" json:"stockVolatility"`
	CryptoVolatility VolatilityBands `yaml:"crypto_volatility" json:"cryptoVolatility"`
	StockSignal      SignalBands     `yaml:"stock_signal" json:"stockSignal"`
	CryptoSignal     SignalBands     `yaml:"crypto_signal" json:"cryptoSignal"`
	BandCoefficient  float64         `yaml:"band_coefficient" json:"bandCoefficient"`
}

// DefaultBandCoefficient widens the confidence band by 1% of price per day.
const DefaultBandCoefficient = 0.01

// DefaultThresholds returns the canonical tables.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StockVolatility:  VolatilityBands{Medium: 0.008, High: 0.02},
		CryptoVolatility: VolatilityBands{Medium: 0.02, High: 0.05},
		StockSignal:      SignalBands{Hold: 0.3, Strong: 1.5},
		CryptoSignal:     SignalBands{Hold: 0.8, Strong: 3.0},
		BandCoefficient:  DefaultBandCoefficient,
	}
}

// Volatility returns the bands for the given asset class.
func (t Thresholds) Volatility(class AssetClass) VolatilityBands {
	if class == Crypto {
		return t.CryptoVolatility
	}
	return t.StockVolatility
}

// Signal returns the bands for the given asset class.
func (t Thresholds) Signal(class AssetClass) SignalBands {
	if class == Crypto {
		return t.CryptoSignal
	}
	return t.StockSignal
}

// Validate rejects tables that would make the buckets overlap or invert.
func (t Thresholds) Validate() error {
	for name, v := range map[string]VolatilityBands{"stock": t.StockVolatility, "crypto": t.CryptoVolatility} {
		if v.Medium <= 0 || v.High <= v.Medium {
			return fmt.Errorf("%s volatility bands %.4f/%.4f: %w", name, v.Medium, v.High, ErrInvalidParameter)
		}
	}
	for name, s := range map[string]SignalBands{"stock": t.StockSignal, "crypto": t.CryptoSignal} {
		if s.Hold < 0 || s.Strong <= s.Hold {
			return fmt.Errorf("%s signal bands %.2f/%.2f: %w", name, s.Hold, s.Strong, ErrInvalidParameter)
		}
	}
	if t.BandCoefficient < 0 || t.BandCoefficient >= 1 {
		return fmt.Errorf("band coefficient %.4f: %w", t.BandCoefficient, ErrInvalidParameter)
	}
	return nil
}
