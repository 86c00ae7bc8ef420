package domain

// Tally is the result of one batch run. Succeeded+Failed+Skipped always
// equals Total, which is the number of identifiers submitted.
type Tally struct {
	Succeeded int
	Failed    int
	Skipped   int
	Total     int
}
