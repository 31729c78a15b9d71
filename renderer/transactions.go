package renderer

import (
	"fmt"
	"strings"

	"github.com/pit38/pit38"
)

// TransactionsMarkdown renders classified transactions as a table, in
// input order.
func TransactionsMarkdown(txs []pit38.ClassifiedTransaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Trade | Settled | Type | Category | Security | Shares | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|---:|---:|")
	for _, tx := range txs {
		shares, amount := "-", "-"
		if tx.HasShares {
			shares = tx.Shares.String()
		}
		if tx.HasAmount {
			amount = tx.AmountUSD.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.TradeDate, tx.SettlementDate, tx.RawType, tx.Category, tx.Investment, shares, amount)
	}
	return b.String()
}
