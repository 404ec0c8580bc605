package models

import (
	"strings"
	"testing"
)

// TestDefaultTaxonomy verifies the embedded taxonomy loads with the expected categories
func TestDefaultTaxonomy(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	if taxonomy.Len() != CategoryCount {
		t.Fatalf("Expected %d categories, got %d", CategoryCount, taxonomy.Len())
	}

	names := taxonomy.Names()
	if names[0] != "מזון לבית" {
		t.Errorf("Expected first category 'מזון לבית', got '%s'", names[0])
	}
	if names[len(names)-1] != "מזומן ללא מעקב" {
		t.Errorf("Expected last category 'מזומן ללא מעקב', got '%s'", names[len(names)-1])
	}

	for _, name := range []Category{"אוכל בחוץ ובילויים", "דלק וחניה", `תחב"צ`, "ביט ללא מעקב"} {
		if !taxonomy.Contains(name) {
			t.Errorf("Expected taxonomy to contain '%s'", name)
		}
	}

	if taxonomy.Contains("groceries") {
		t.Error("Taxonomy should not contain untranslated labels")
	}

	for _, def := range taxonomy.Definitions() {
		if len(def.Examples) == 0 {
			t.Errorf("Category '%s' has no merchant examples", def.Name)
		}
	}
}

// TestTaxonomyDefinitionsAreCopies verifies callers cannot mutate the taxonomy
func TestTaxonomyDefinitionsAreCopies(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	defs := taxonomy.Definitions()
	defs[0].Name = "changed"
	defs[0].Examples[0] = "changed"

	fresh := taxonomy.Definitions()
	if fresh[0].Name == "changed" || fresh[0].Examples[0] == "changed" {
		t.Error("Definitions() returned shared state")
	}
}

func TestParseTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			doc:     "categories: [",
			wantErr: "failed to parse taxonomy",
		},
		{
			name:    "wrong size",
			doc:     "categories:\n  - name: a\n    examples: [x]\n",
			wantErr: "must define 21 categories",
		},
		{
			name:    "duplicate names",
			doc:     duplicateTaxonomy(),
			wantErr: "duplicate category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaxonomy([]byte(tt.doc))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.wantErr, err)
			}
		})
	}
}

func duplicateTaxonomy() string {
	var b strings.Builder
	b.WriteString("categories:\n")
	for i := 0; i < CategoryCount; i++ {
		b.WriteString("  - name: same\n    examples: [x]\n")
	}
	return b.String()
}

// TestAnalysisResult tests the helpers used for logging and metrics
func TestAnalysisResult(t *testing.T) {
	result := &AnalysisResult{
		Expenses: []Expense{
			{Description: "רמי לוי", Amount: 150, Category: "מזון לבית"},
			{Description: "WOLT", Amount: 45.5, Category: "אוכל בחוץ ובילויים"},
			{Description: "Mystery", Amount: 10, Category: "other"},
			{Description: "Mystery 2", Amount: 4.5, Category: "other"},
		},
	}

	if total := result.Total(); total != 210 {
		t.Errorf("Expected total 210, got %.2f", total)
	}

	unknown := result.UnknownCategories(DefaultTaxonomy())
	if len(unknown) != 1 || unknown[0] != "other" {
		t.Errorf("Expected unknown categories [other], got %v", unknown)
	}
}
