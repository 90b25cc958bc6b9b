// Package filter narrows a transaction list to the rows matching a search box
// query. It never mutates its input.
package filter

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/sheikh-saqib/banking-session-client/internal/i18n"
	"github.com/sheikh-saqib/banking-session-client/internal/models"
)

// Filter keeps the transactions whose text, locale date or display amount
// contains query, case-insensitively. A blank query returns txs unchanged.
// Kept transactions stay in input order.
func Filter(txs []models.Transaction, query string, tag language.Tag) []models.Transaction {
	q := normalize(query)
	if q == "" {
		return txs
	}

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if matches(tx, q, tag) {
			out = append(out, tx)
		}
	}
	return out
}

// Matches reports whether a single transaction passes query.
func Matches(tx models.Transaction, query string, tag language.Tag) bool {
	q := normalize(query)
	if q == "" {
		return true
	}
	return matches(tx, q, tag)
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(tx models.Transaction, q string, tag language.Tag) bool {
	if strings.Contains(strings.ToLower(tx.Text), q) {
		return true
	}
	if strings.Contains(i18n.FormatDate(tag, tx.Timestamp), q) {
		return true
	}
	return strings.Contains(strings.ToLower(tx.DisplayAmount()), q)
}
