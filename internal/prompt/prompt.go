// Package prompt assembles the categorization instruction sent to the completion API.
package prompt

import (
	"fmt"

	pongo2 "github.com/flosch/pongo2/v6"

	"expense-categorizer-api/internal/models"
)

// The template is wrapped in autoescape off: report text routinely contains
// quotes and ampersands (ש"ח, H&M) that must reach the model unchanged.
const categorizeTemplate = `{% autoescape off %}אתה מומחה בניתוח דוחות הוצאות ישראליים.

להלן טקסט מדוח הוצאות:
---
{{ text }}
---

המשימה: מצא את כל ההוצאות/עסקאות בטקסט וקטלג כל אחת לאחת מ-{{ count }} הקטגוריות הבאות. השתמש בדוגמאות בתי העסק כדי להכריע בין קטגוריות.

קטגוריות ודוגמאות:
{% for c in categories %}- {{ c.Name }}: {{ c.Examples|join:", " }}
{% endfor %}
לכל הוצאה החזר:
- description: שם בית העסק כפי שמופיע בטקסט
- amount: הסכום (מספר חיובי בלבד)
- category: קטגוריה אחת מהרשימה למעלה, בדיוק כפי שהיא כתובה

פורמט תשובה - אובייקט JSON אחד בלבד, לפי סדר ההופעה בטקסט:
{"expenses": [{"description": "שם", "amount": 123.45, "category": "קטגוריה"}, ...]}

חוקים חשובים:
- רק הוצאות אמיתיות מהטקסט
- התעלם מכותרות, סיכומים ושורות יתרה
- סכום חייב להיות מספר חיובי{% endautoescape %}`

var categorizeTpl = pongo2.Must(pongo2.FromString(categorizeTemplate))

// templateCategory keeps the template independent of the models field types.
type templateCategory struct {
	Name     string
	Examples []string
}

// Builder renders categorization prompts for a fixed taxonomy
type Builder struct {
	categories []templateCategory
}

// NewBuilder creates a prompt builder for the given taxonomy
func NewBuilder(taxonomy *models.Taxonomy) *Builder {
	defs := taxonomy.Definitions()
	categories := make([]templateCategory, len(defs))
	for i, def := range defs {
		categories[i] = templateCategory{
			Name:     string(def.Name),
			Examples: def.Examples,
		}
	}
	return &Builder{categories: categories}
}

// Build renders the prompt for one report text. The text is inserted verbatim.
func (b *Builder) Build(text string) (string, error) {
	out, err := categorizeTpl.Execute(pongo2.Context{
		"text":       text,
		"count":      len(b.categories),
		"categories": b.categories,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return out, nil
}
