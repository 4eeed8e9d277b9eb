// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Package finance serves the dashboard overview data.

The overview aggregates everything the dashboard shows in one payload: the
headline balance, the stat cards, recent transactions, budgets, savings goals,
and debt positions. Amounts are int64 đồng throughout.

# Architecture

The package follows the handler/service layering of the identity domain. The
service currently draws from a fixed in-memory dataset (the figures the first
product iteration shipped with); a storage-backed provider can replace
[SeedProvider] without touching the transport layer.
*/
package finance

import "context"

// # Overview Types

// Transaction is a single ledger entry. Negative amounts are expenses.
type Transaction struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

// Budget tracks spending against a monthly category limit.
type Budget struct {
	Category   string `json:"category"`
	Used       int64  `json:"used"`
	Limit      int64  `json:"limit"`
	Percentage int    `json:"percentage"`
}

// Goal is a savings target with current progress.
type Goal struct {
	Name       string `json:"name"`
	Current    int64  `json:"current"`
	Target     int64  `json:"target"`
	Percentage int    `json:"percentage"`
}

// Debt aggregates what the user owes or is owed, by direction.
type Debt struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

// Summary is the full dashboard payload.
type Summary struct {
	TotalBalance   int64         `json:"total_balance"`
	TotalIncome    int64         `json:"total_income"`
	TotalExpense   int64         `json:"total_expense"`
	AccountBalance int64         `json:"account_balance"`
	Savings        int64         `json:"savings"`
	Transactions   []Transaction `json:"transactions"`
	Budgets        []Budget      `json:"budgets"`
	Goals          []Goal        `json:"goals"`
	Debts          []Debt        `json:"debts"`
}

// # Providers

// Provider supplies the dashboard summary for a user.
type Provider interface {
	Summary(context context.Context, userID int64) (*Summary, error)
}

// SeedProvider serves the fixed dataset the first dashboard release shipped
// with. Every user sees the same figures until real ledgers land.
type SeedProvider struct{}

// NewSeedProvider constructs the in-memory [Provider].
func NewSeedProvider() *SeedProvider {
	return &SeedProvider{}
}

// Summary returns the seed dashboard figures.
func (p *SeedProvider) Summary(_ context.Context, _ int64) (*Summary, error) {
	const (
		totalIncome  = 15000000
		totalExpense = 5000000
	)

	return &Summary{
		TotalBalance:   25000000,
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
		AccountBalance: 20000000,
		Savings:        totalIncome - totalExpense,
		Transactions: []Transaction{
			{ID: 1, Description: "Mua đồ ăn", Amount: -50000, Date: "Hôm nay", Category: "Chi tiêu"},
			{ID: 2, Description: "Lương tháng", Amount: 10000000, Date: "Hôm qua", Category: "Thu nhập"},
			{ID: 3, Description: "Tiền điện", Amount: -200000, Date: "2 ngày trước", Category: "Chi tiêu"},
		},
		Budgets: []Budget{
			{Category: "Ăn uống", Used: 500000, Limit: 1000000, Percentage: 50},
			{Category: "Mua sắm", Used: 200000, Limit: 500000, Percentage: 40},
			{Category: "Giải trí", Used: 100000, Limit: 300000, Percentage: 33},
		},
		Goals: []Goal{
			{Name: "Mua xe máy", Current: 5000000, Target: 20000000, Percentage: 25},
			{Name: "Du lịch", Current: 2000000, Target: 10000000, Percentage: 20},
		},
		Debts: []Debt{
			{Type: "Nợ phải trả", Amount: 5000000, Count: 2},
			{Type: "Khoản phải thu", Amount: 3000000, Count: 1},
		},
	}, nil
}
