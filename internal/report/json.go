package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/the-budget-must-balance/internal/analysis"
)

// Analysis is the machine-readable output of `budget analyze --output json`.
type Analysis struct {
	Report          *analysis.Report          `json:"report"`
	Recommendations []analysis.Recommendation `json:"recommendations"`
}

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
