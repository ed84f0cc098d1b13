package leitner

// BoxIntervals maps a box number to the review delay in days. Box 0 has
// never been introduced and box 6 is retired, so neither carries a delay.
var BoxIntervals = [7]int{
	0,  // Box 0: not started
	1,  // Box 1: 1 day
	2,  // Box 2: 2 days
	4,  // Box 3: 4 days
	8,  // Box 4: 8 days
	16, // Box 5: 16 days
	0,  // Box 6: mastered, no further review
}
