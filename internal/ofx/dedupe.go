package ofx

import "github.com/Veraticus/the-budget-must-balance/internal/model"

// Dedupe drops candidates already in the ledger, matched on day, amount and
// description, and candidates whose bank transaction id repeats within the
// batch, as happens when overlapping statements are imported together. It
// returns the fresh candidates in order and the number dropped.
func Dedupe(existing []model.Expense, candidates []Candidate) ([]Candidate, int) {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[expenseKey(e.Timestamp, e.Amount, e.Description)] = true
	}
	fitids := make(map[string]bool, len(candidates))

	fresh := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		id := c.AccountID + "|" + c.FITID
		if c.FITID != "" && fitids[id] {
			continue
		}
		if seen[c.key()] {
			continue
		}
		fitids[id] = true
		fresh = append(fresh, c)
	}
	return fresh, len(candidates) - len(fresh)
}

// Import adds every candidate to the ledger and returns the new expenses. It
// stops at the first candidate the ledger rejects.
func Import(l *model.Ledger, candidates []Candidate) ([]model.Expense, error) {
	added := make([]model.Expense, 0, len(candidates))
	for _, c := range candidates {
		e, err := c.Expense()
		if err != nil {
			return added, err
		}
		if err := l.AddExpense(e); err != nil {
			return added, err
		}
		added = append(added, e)
	}
	return added, nil
}
