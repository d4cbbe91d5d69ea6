package core

// Case identifies a logical endpoint group on the venue. It selects the
// request shape and how the response envelope is parsed.
type Case int

// Case constants define all endpoint groups the connector queries.
const (
	// CaseBalances retrieves every account purse and its balance.
	CaseBalances Case = iota
	// CaseTrades retrieves historical fills.
	CaseTrades
	// CaseDeposits retrieves historical deposits.
	CaseDeposits
	// CaseWithdrawals retrieves historical withdrawals.
	CaseWithdrawals
)

// String returns the string representation of the case.
func (c Case) String() string {
	return [...]string{
		"balances",
		"trades",
		"deposits",
		"withdrawals",
	}[c]
}

// Paginated returns true if the case's endpoint returns paged result sets.
func (c Case) Paginated() bool {
	return c != CaseBalances
}
