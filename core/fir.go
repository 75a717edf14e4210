package core

// FirFilter is a moving-sum filter over the last RpmSmoothFirDepth samples.
// The running sum is kept in step with the ring so updates are O(1).
type FirFilter struct {
	ring   [RpmSmoothFirDepth]int32
	offset int
	sum    int32
}

// Update replaces the oldest sample with value
func (f *FirFilter) Update(value int32) {
	old := f.ring[f.offset]
	f.ring[f.offset] = value
	f.offset = (f.offset + 1) % len(f.ring)
	f.sum += value - old
}

// FilteredValue returns the mean of the ring, rounding halves down.
// Floor division keeps the bias the same for negative sums.
func (f *FirFilter) FilteredValue() int32 {
	const n = int32(len(f.ring))
	return floorDiv(f.sum+(n/2-1), n)
}

// Sum returns the running sum of the ring
func (f *FirFilter) Sum() int32 {
	return f.sum
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
