package stream

// Topics carrying account lifecycle events. Handlers produce them after a
// workflow operation commits; the notification worker consumes them and
// sends the matching email. Delivery is fire-and-forget: a lost event costs
// a courtesy email, never a ledger entry.
const (
	DepositSubmittedTopic    = "account.deposit.submitted"
	WithdrawalRequestedTopic = "account.withdrawal.requested"
	PlanPurchasedTopic       = "account.plan.purchased"
	KycSubmittedTopic        = "account.kyc.submitted"
)

// AccountEvent is the payload shared by all account lifecycle topics. Amount
// is pre-formatted for display because the consumer only templates it.
type AccountEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Amount    string `json:"amount,omitempty"`
	Method    string `json:"method,omitempty"`
	Reference string `json:"reference,omitempty"`
}
