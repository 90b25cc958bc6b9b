package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

// renderSnapshot prints the account box followed by the transaction table.
func renderSnapshot(w io.Writer, p *message.Printer, tag language.Tag, snap models.Snapshot, txs []models.Transaction) error {
	fmt.Fprintf(w, "%s  %s\n", snap.View.AccountNumber, snap.View.Description)
	fmt.Fprintf(w, "%s\n\n", snap.View.Balance)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEXT\tDATE\tAMOUNT\tID")
	for _, tx := range txs {
		text := tx.Text
		if text == "" {
			text = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s...\n", text, i18n.FormatDate(tag, tx.Timestamp), tx.DisplayAmount(), tx.ShortID())
	}
	if len(txs) == 0 {
		fmt.Fprintln(tw, p.Sprintf(i18n.MsgNoTransactions))
	}
	return tw.Flush()
}
