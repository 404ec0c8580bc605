package models

// AnalyzeRequest is the inbound body of the analyze endpoint
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

// Expense is a single categorized transaction extracted from report text
type Expense struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
}

// AnalysisResult is the structured result of one categorization request
type AnalysisResult struct {
	Expenses []Expense `json:"expenses"`
}

// UnknownCategories returns the categories in the result that are not part
// of the taxonomy, in order of first appearance
func (r *AnalysisResult) UnknownCategories(t *Taxonomy) []Category {
	var unknown []Category
	seen := make(map[Category]bool)
	for _, e := range r.Expenses {
		if t.Contains(e.Category) || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		unknown = append(unknown, e.Category)
	}
	return unknown
}

// Total returns the sum of all expense amounts
func (r *AnalysisResult) Total() float64 {
	var total float64
	for _, e := range r.Expenses {
		total += e.Amount
	}
	return total
}
