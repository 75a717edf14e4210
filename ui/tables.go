package ui

// Feed rates in µm/rev
var FeedRates = [...]int32{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80,
	85, 90, 95, 100, 110, 120, 130, 140, 150, 160, 170, 180, 190, 200, 225, 250, 270, 300, 375,
	400, 425, 450, 475, 500, 550, 600, 650, 700, 750, 800, 850, 900, 1000,
}

// Metric thread pitches in µm
var MetricThreadPitches = [...]int32{
	200, 250, 300, 350, 400, 450, 500, 600, 700, 750, 800, 1000, 1250, 1500, 1750, 2000, 2500,
	3000, 3500, 4000,
}

// Imperial thread pitches in threads per inch
var ImperialThreadPitches = [...]int32{
	80, 72, 64, 56, 48, 40, 32, 28, 24, 20, 18, 16, 14, 13, 12, 11, 10, 9, 8, 7, 6,
}

// Default selections at power-up
const (
	DefaultFeedRateIndex      = 24 // 80µm/rev
	DefaultMetricPitchIndex   = 11 // 1.00mm
	DefaultImperialPitchIndex = 9  // 20TPI
)

// Selection is an index that can only point inside its table
type Selection struct {
	table []int32
	index int
}

func newSelection(table []int32, index int) Selection {
	return Selection{table: table, index: clamp(index, 0, len(table)-1)}
}

// Step moves the index by n, stopping at either end of the table
func (s *Selection) Step(n int) {
	s.index = clamp(s.index+n, 0, len(s.table)-1)
}

// Value returns the selected table entry
func (s Selection) Value() int32 {
	return s.table[s.index]
}

// Index returns the selected position
func (s Selection) Index() int {
	return s.index
}

// Len returns the table size
func (s Selection) Len() int {
	return len(s.table)
}
