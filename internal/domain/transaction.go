package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeEarn               TxType = "earn"
	TxTypeReferralCommission TxType = "referral_commission"
)

type TxStatus string

const TxStatusCompleted TxStatus = "completed"

// Transaction is an immutable append-only record of one crediting event.
// Written exactly once, never mutated.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Type        TxType          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      TxStatus        `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}
