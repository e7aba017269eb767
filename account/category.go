package account

// Category classifies an account. The trait table below is the single
// source of truth for category semantics: polarity (asset vs liability),
// interest eligibility and amortization applicability are looked up here
// instead of being re-derived at call sites.
type Category string

const (
	Checking     Category = "checking"
	Savings      Category = "savings"
	CD           Category = "cd"
	CreditLine   Category = "credit-line"
	Mortgage     Category = "mortgage"
	AutoLoan     Category = "auto-loan"
	StudentLoan  Category = "student-loan"
	PersonalLoan Category = "personal-loan"
	Business     Category = "business"
	Investment   Category = "investment"
	MoneyMarket  Category = "money-market"
)

type traits struct {
	Liability       bool
	InterestBearing bool // accrues deposit interest in the yearly pass
	Amortizing      bool // fixed-term loan paid down on a schedule
}

var categoryTraits = map[Category]traits{
	Checking:     {},
	Savings:      {InterestBearing: true},
	CD:           {InterestBearing: true},
	Business:     {InterestBearing: true},
	Investment:   {},
	MoneyMarket:  {},
	CreditLine:   {Liability: true},
	Mortgage:     {Liability: true, Amortizing: true},
	AutoLoan:     {Liability: true, Amortizing: true},
	StudentLoan:  {Liability: true, Amortizing: true},
	PersonalLoan: {Liability: true, Amortizing: true},
}

// Valid reports whether c is a known account category.
func (c Category) Valid() bool {
	_, ok := categoryTraits[c]
	return ok
}

// IsLiability reports whether balances on c represent an amount owed.
func (c Category) IsLiability() bool { return categoryTraits[c].Liability }

// IsInterestBearing reports whether c accrues deposit interest yearly.
func (c Category) IsInterestBearing() bool { return categoryTraits[c].InterestBearing }

// IsAmortizing reports whether c is a fixed-term loan with a payment schedule.
func (c Category) IsAmortizing() bool { return categoryTraits[c].Amortizing }

// TxCategory classifies a ledger entry.
type TxCategory string

const (
	TxDeposit          TxCategory = "deposit"
	TxWithdrawal       TxCategory = "withdrawal"
	TxTransfer         TxCategory = "transfer"
	TxPayment          TxCategory = "payment"
	TxFee              TxCategory = "fee"
	TxInterest         TxCategory = "interest"
	TxLoanDisbursement TxCategory = "loan-disbursement"
	TxRefund           TxCategory = "refund"
	TxCashback         TxCategory = "cashback"
	TxInvestmentReturn TxCategory = "investment-return"
	TxTax              TxCategory = "tax"
)

// txDirection maps a transaction category to the sign of its balance
// delta: +1 credits the balance, -1 debits it. Categories mapped to 0
// (transfer, loan disbursement, investment return) move money between
// accounts and must be posted as explicit legs by the manager so the
// two sides can never double-count.
var txDirection = map[TxCategory]int{
	TxDeposit:          +1,
	TxInterest:         +1,
	TxRefund:           +1,
	TxCashback:         +1,
	TxWithdrawal:       -1,
	TxPayment:          -1,
	TxFee:              -1,
	TxTax:              -1,
	TxTransfer:         0,
	TxLoanDisbursement: 0,
	TxInvestmentReturn: 0,
}

// Valid reports whether t is a known transaction category.
func (t TxCategory) Valid() bool {
	_, ok := txDirection[t]
	return ok
}
