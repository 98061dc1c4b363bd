package quant

import "math"

// Signal is the five-way trading label.
type Signal string

const (
	StrongBuy  Signal = "STRONG BUY"
	Buy        Signal = "BUY"
	Hold       Signal = "HOLD"
	Sell       Signal = "SELL"
	StrongSell Signal = "STRONG SELL"
)

// Signals lists every label from most bullish to most bearish.
var Signals = []Signal{StrongBuy, Buy, Hold, Sell, StrongSell}

// ClassifySignal maps a predicted percent change to a label. The HOLD range
// includes its bounds; SELL covers [-strong, -hold). NaN reads as HOLD.
func ClassifySignal(changePct float64, class AssetClass, t Thresholds) Signal {
	bands := t.Signal(class)
	switch {
	case math.IsNaN(changePct):
		return Hold
	case changePct > bands.Strong:
		return StrongBuy
	case changePct > bands.Hold:
		return Buy
	case changePct >= -bands.Hold:
		return Hold
	case changePct >= -bands.Strong:
		return Sell
	default:
		return StrongSell
	}
}

// IsBullish and IsBearish drive the badge colour.
func (s Signal) IsBullish() bool { return s == Buy || s == StrongBuy }
func (s Signal) IsBearish() bool { return s == Sell || s == StrongSell }
