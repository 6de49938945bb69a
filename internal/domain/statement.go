package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	statementRule      = "----------------------------\n"
	statementRowFormat = "%-20s | %-10s | %-12s | %-30s\n"
	statementDateForm  = "2006-01-02 15:04"
	statementDayForm   = "2006-01-02"
)

// Statement is the data needed to render an account statement.
type Statement struct {
	HolderName   string
	Account      *Account
	Start        time.Time
	End          time.Time
	Transactions []*Transaction
}

// RenderStatement formats a statement as plain text.
// Debits are shown with a leading minus sign.
func RenderStatement(s Statement) string {
	var sb strings.Builder

	sb.WriteString("===== ACCOUNT STATEMENT =====\n")
	fmt.Fprintf(&sb, "Holder: %s\n", s.HolderName)
	fmt.Fprintf(&sb, "Account: %s (%s)\n", s.Account.Number, s.Account.Type)
	fmt.Fprintf(&sb, "Period: %s to %s\n", s.Start.UTC().Format(statementDayForm), s.End.UTC().Format(statementDayForm))
	fmt.Fprintf(&sb, "Current balance: %s\n", s.Account.Balance.StringFixed(2))
	sb.WriteString(statementRule)
	fmt.Fprintf(&sb, statementRowFormat, "Date", "Type", "Amount", "Description")

	for _, t := range s.Transactions {
		fmt.Fprintf(&sb, statementRowFormat,
			t.CreatedAt.UTC().Format(statementDateForm),
			t.Type,
			t.SignedAmount().StringFixed(2),
			t.Description,
		)
	}

	sb.WriteString(statementRule)

	return sb.String()
}
