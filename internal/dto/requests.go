package dto

// CreateWithdrawalRequest — тело POST /api/withdrawals.
// Поля назначения полиморфны по методу: upiId для upi,
// bankAccountNumber + ifsc для bank.
type CreateWithdrawalRequest struct {
	Amount            float64 `json:"amount"`
	Method            string  `json:"method"`
	AccountHolderName string  `json:"accountHolderName"`
	UPIID             string  `json:"upiId"`
	BankAccountNumber string  `json:"bankAccountNumber"`
	IFSC              string  `json:"ifsc"`
	SimulateOutcome   string  `json:"simulateOutcome"`
}
