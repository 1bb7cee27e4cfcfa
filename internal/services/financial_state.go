package services

import "glasstrade-backend/internal/models"

// FinancialState is the canonical (total, paid, balance, status) tuple
// every payment write path persists.
type FinancialState struct {
	Amount        float64
	PaidAmount    float64
	BalanceAmount float64
	Status        string
}

// ComputeFinancialState derives the stored financial state from a total
// amount and a reported paid amount.
//
// Negative or NaN-ish inputs are treated as 0. A paid amount above the
// total is clamped to the total: overpayment is not representable and
// the excess is discarded. Balance never goes negative. Status is a
// pure function of (amount, effective paid):
//
//	paid            paid >= amount and amount > 0
//	partially_paid  0 < paid < amount
//	unpaid          everything else (zero amount or zero paid)
func ComputeFinancialState(amount, paidAmount float64) FinancialState {
	if amount < 0 {
		amount = 0
	}
	if paidAmount < 0 {
		paidAmount = 0
	}

	effectivePaid := paidAmount
	if effectivePaid > amount {
		effectivePaid = amount
	}

	balance := amount - effectivePaid
	if balance < 0 {
		balance = 0
	}

	status := models.StatusUnpaid
	switch {
	case amount > 0 && effectivePaid >= amount:
		status = models.StatusPaid
	case effectivePaid > 0 && effectivePaid < amount:
		status = models.StatusPartiallyPaid
	}

	return FinancialState{
		Amount:        amount,
		PaidAmount:    effectivePaid,
		BalanceAmount: balance,
		Status:        status,
	}
}
