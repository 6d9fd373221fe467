package transaction

import "github.com/shopspring/decimal"

// DefaultAuthorizationLimit is the amount above which transactions are
// rejected when no limit is configured.
var DefaultAuthorizationLimit = decimal.NewFromInt(1000)

// ThresholdPolicy authorizes any transaction whose amount does not exceed a
// fixed limit. The limit applies in the transaction's stated currency.
type ThresholdPolicy struct {
	limit decimal.Decimal
}

func NewThresholdPolicy(limit decimal.Decimal) ThresholdPolicy {
	return ThresholdPolicy{limit: limit}
}

// Authorize reports whether the proposed transaction may proceed. An amount
// exactly at the limit is still authorized.
func (p ThresholdPolicy) Authorize(params CreateParams) bool {
	return !params.Amount.GreaterThan(p.limit)
}
