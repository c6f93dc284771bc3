package domain

// Placement is a body's position in one divisional chart.
// House equals the sign number: divisional charts carry no ascendant rotation here.
type Placement struct {
	Sign  Sign
	House int
	Part  int // 1-based sub-division index, set only for the nine-part chart
}

// DivisionalChart is the body → placement table for a single division count.
type DivisionalChart struct {
	Division   int
	Placements map[Body]Placement
}
