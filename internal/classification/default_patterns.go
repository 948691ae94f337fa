package classification

import "github.com/Veraticus/the-budget-must-balance/internal/model"

// DefaultPatterns returns the built-in patterns for common US bank statement
// descriptions.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Transfers into savings and loan payments read like other categories,
		// so they are checked first.
		{
			Name:     "Savings Transfer",
			Category: model.Savings,
			Regex:    `\b(TRANSFER\s*TO\s*SAV(INGS)?|SAVINGS\s*DEP(OSIT)?|BROKERAGE|VANGUARD|FIDELITY|SCHWAB|401K\s*CONTRIB|IRA\s*CONTRIB)\b`,
			Priority: 100,
		},
		{
			Name:     "Debt Payment",
			Category: model.DebtPayment,
			Regex:    `\b(LOAN\s*P(A)?YMT|LOAN\s*PAYMENT|STUDENT\s*LOAN|NAVIENT|NELNET|SALLIE\s*MAE|CARD\s*PAYMENT|CREDIT\s*CARD\s*P(A)?YMT|AUTO\s*LOAN)\b`,
			Priority: 95,
		},
		{
			Name:     "Housing",
			Category: model.Housing,
			Regex:    `\b(RENT|MORTGAGE|MTG\s*P(A)?YMT|HOA|PROPERTY\s*MGMT|LANDLORD|APARTMENTS?)\b`,
			Priority: 90,
		},
		{
			Name:     "Utilities",
			Category: model.Utilities,
			Regex:    `\b(ELECTRIC|POWER|WATER|SEWER|GAS\s*CO|COMCAST|XFINITY|VERIZON|AT&T|T-MOBILE|SPECTRUM|INTERNET|UTILIT(Y|IES))\b`,
			Priority: 85,
		},
		{
			Name:     "Healthcare",
			Category: model.Healthcare,
			Regex:    `\b(PHARMACY|CVS|WALGREENS|RITE\s*AID|DENTAL|DENTIST|CLINIC|HOSPITAL|MEDICAL|OPTOMETR\w*|HEALTH)\b`,
			Priority: 80,
		},
		{
			Name:     "Transportation",
			Category: model.Transportation,
			Regex:    `\b(SHELL|CHEVRON|EXXON|MOBIL|TEXACO|GASOLINE|FUEL|UBER|LYFT|PARKING|TRANSIT|METRO|TOLL|DMV|AUTO\s*REPAIR)\b`,
			Priority: 75,
		},
		{
			Name:     "Entertainment",
			Category: model.Entertainment,
			Regex:    `\b(NETFLIX|SPOTIFY|HULU|DISNEY|HBO|STEAM|CINEMA|THEATRE|THEATER|AMC|TICKETMASTER|CONCERT|XBOX|PLAYSTATION|NINTENDO)\b`,
			Priority: 70,
		},
		{
			Name:     "Food",
			Category: model.Food,
			Regex:    `\b(GROCERY|GROCERIES|SUPERMARKET|WHOLE\s*FOODS|TRADER\s*JOE'?S|SAFEWAY|KROGER|ALDI|PUBLIX|RESTAURANT|CAFE|COFFEE|STARBUCKS|PIZZA|DOORDASH|GRUBHUB|MCDONALD'?S|CHIPOTLE)\b`,
			Priority: 65,
		},
	}
}
