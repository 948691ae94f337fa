// Package ofx reads OFX/QFX bank and credit card statements and turns their
// debits into expense candidates.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/classification"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Candidate is a statement debit that can become an expense.
type Candidate struct {
	Date        time.Time
	Amount      decimal.Decimal
	FITID       string
	AccountID   string
	Description string
	Category    model.ExpenseCategory
	Detected    bool // Category came from a pattern rather than the fallback
}

// Expense converts the candidate into a new expense.
func (c Candidate) Expense() (model.Expense, error) {
	return model.NewExpense(c.Category, c.Amount, c.Description, c.Date)
}

// key identifies a candidate by what ends up in the ledger, since expenses do
// not keep the bank's transaction id.
func (c Candidate) key() string {
	return expenseKey(c.Date, c.Amount, c.Description)
}

func expenseKey(at time.Time, amount decimal.Decimal, description string) string {
	return at.Format("2006-01-02") + "|" + amount.StringFixed(2) + "|" + strings.ToLower(description)
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	detector *classification.Detector
	fallback model.ExpenseCategory
	override model.ExpenseCategory
}

// Option configures a Parser.
type Option func(*Parser)

// WithDetector replaces the default category detector.
func WithDetector(d *classification.Detector) Option {
	return func(p *Parser) { p.detector = d }
}

// WithCategory files every debit under c and skips detection.
func WithCategory(c model.ExpenseCategory) Option {
	return func(p *Parser) { p.override = c }
}

// NewParser creates a new OFX parser. Debits no pattern recognizes are filed
// under Other.
func NewParser(opts ...Option) *Parser {
	p := &Parser{fallback: model.Other}
	for _, opt := range opts {
		opt(p)
	}
	if p.detector == nil {
		p.detector = classification.NewDefaultDetector()
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports leave bare opening tags without their closing bracket
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns one candidate per debit, in
// statement order. Credits are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Candidate, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []Candidate
	var bankStmts, ccStmts, credits int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			got, skipped := p.convert(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
			candidates = append(candidates, got...)
			credits += skipped
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			got, skipped := p.convert(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
			candidates = append(candidates, got...)
			credits += skipped
		}
	}

	slog.Info("Parsed OFX file",
		"debits", len(candidates),
		"credits_skipped", credits,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return candidates, nil
}

// convert keeps debits, which OFX reports as negative amounts.
func (p *Parser) convert(txns []ofxgo.Transaction, accountID string) ([]Candidate, int) {
	var candidates []Candidate
	skipped := 0

	for _, tx := range txns {
		amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
		if err != nil || !amount.IsNegative() {
			skipped++
			continue
		}

		c := Candidate{
			FITID:       string(tx.FiTID),
			AccountID:   accountID,
			Date:        tx.DtPosted.Time,
			Amount:      amount.Abs(),
			Description: truncate(extractMerchantName(tx), model.MaxDescriptionLength),
		}
		c.Category, c.Detected = p.categorize(tx, c.Description)

		slog.Debug("Converted OFX transaction",
			"fitid", c.FITID,
			"category", c.Category.String(),
			"detected", c.Detected)
		candidates = append(candidates, c)
	}

	return candidates, skipped
}

func (p *Parser) categorize(tx ofxgo.Transaction, description string) (model.ExpenseCategory, bool) {
	if p.override.Valid() {
		return p.override, false
	}
	if m, ok := p.detector.Detect(description, string(tx.Name), string(tx.Memo)); ok {
		return m.Category, true
	}
	return p.fallback, false
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " left behind by some banks
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
