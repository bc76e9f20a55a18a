package domain

// Fact is one trivia entry. IDs are dense, starting at 1, and are reassigned
// on every sync.
type Fact struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// FactKey identifies a fact by content. Two facts with the same key are
// duplicates.
type FactKey struct {
	Text   string
	Source string
}

func (f Fact) Key() FactKey {
	return FactKey{Text: f.Text, Source: f.Source}
}
