package mathx

// ScalePercent maps pct in [0,100] onto [0,top] with 64-bit intermediates.
// Values above 100 are treated as 100.
func ScalePercent(pct uint8, top uint32) uint32 {
	p := uint64(Min(pct, 100))
	return uint32(p * uint64(top) / 100)
}
