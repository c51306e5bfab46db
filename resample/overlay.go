package resample

import (
	"fmt"

	"github.com/rustyeddy/maxoi/market"
)

// Offset is a fixed price band drawn relative to the close.
type Offset struct {
	Label string
	Delta float64
	Color string
}

// Name is the label, or "Close+149" style when none was configured.
func (o Offset) Name() string {
	if o.Label != "" {
		return o.Label
	}
	return fmt.Sprintf("Close%+g", o.Delta)
}

// Overlay is one derived series aligned with the result rows.
type Overlay struct {
	Offset
	Values []market.Value
}

// DefaultOffsets are the ±149 and ±249 bands.
func DefaultOffsets() []Offset {
	return []Offset{
		{Delta: 149, Color: "#A0B3CE"},
		{Delta: -149, Color: "#CDA7A0"},
		{Delta: 249, Color: "#97CB9D"},
		{Delta: -249, Color: "#EECFAE"},
	}
}

// Overlays derives close+delta for every offset. Buckets without a close
// stay absent in every overlay.
func Overlays(closes []market.Value, offsets []Offset) []Overlay {
	out := make([]Overlay, 0, len(offsets))
	for _, o := range offsets {
		vals := make([]market.Value, len(closes))
		for i, c := range closes {
			vals[i] = c.Add(o.Delta)
		}
		out = append(out, Overlay{Offset: o, Values: vals})
	}
	return out
}
