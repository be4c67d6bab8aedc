package models

import "strings"

// Transaction kinds. Amounts are stored positive; the sign is implied by
// the kind (earned_* credits, redeemed debits).
const (
	TransactionEarnedReport  = "earned_report"
	TransactionEarnedCollect = "earned_collect"
	TransactionRedeemed      = "redeemed"
)

// Transaction is an immutable ledger entry. The transaction log is the
// source of truth for point balances; it is append-only and never edited.
type Transaction struct {
	Model
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	Type        string `json:"type" gorm:"not null"`
	Amount      int    `json:"amount" gorm:"not null"`
	Description string `json:"description"`
}

// Credit reports whether the entry adds to the balance.
func (t *Transaction) Credit() bool {
	return strings.HasPrefix(t.Type, "earned")
}
