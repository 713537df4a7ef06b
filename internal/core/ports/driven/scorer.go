package driven

// Scorer measures how well a query matches a piece of text.
// Keeping the algorithm behind this interface lets it be swapped
// without touching resolver logic.
type Scorer interface {
	// Score returns a similarity in [0, 1]; 1 is a perfect match.
	Score(query, text string) float64
}
