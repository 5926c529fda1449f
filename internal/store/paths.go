package store

import "fmt"

// Logical path layout of the shared store. Paths address whole records; the
// record payloads themselves are opaque to the store.
const (
	AccountsPrefix       = "accounts/"
	WatchRecordsPrefix   = "watchRecords/"
	TransactionsPrefix   = "transactions/"
	ReferralsPrefix      = "referrals/"
	ProviderConfigPrefix = "providerConfig/"
	LastResetDatePath    = "system/lastResetDate"
)

func AccountPath(accountID string) string {
	return AccountsPrefix + accountID
}

func WatchRecordPath(accountID, providerID string) string {
	return fmt.Sprintf("%s%s/%s", WatchRecordsPrefix, accountID, providerID)
}

func TransactionPath(txID string) string {
	return TransactionsPrefix + txID
}

func ReferralPath(referrerID string) string {
	return ReferralsPrefix + referrerID
}

func ProviderConfigPath(providerID string) string {
	return ProviderConfigPrefix + providerID
}
