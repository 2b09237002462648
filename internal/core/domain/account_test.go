package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

func TestAccountType_IsValid(t *testing.T) {
	for _, at := range []domain.AccountType{
		domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense,
	} {
		assert.True(t, at.IsValid(), string(at))
	}
	assert.False(t, domain.AccountType("BANK").IsValid())
	assert.False(t, domain.AccountType("").IsValid())
}

func TestAccountType_NormalSide(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.EntryType
	}{
		{domain.Asset, domain.Debit},
		{domain.Expense, domain.Debit},
		{domain.Liability, domain.Credit},
		{domain.Equity, domain.Credit},
		{domain.Revenue, domain.Credit},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.NormalSide())
		})
	}
}

func TestAccount_IsDebitNormal(t *testing.T) {
	cash := domain.Account{AccountNumber: "1000", AccountType: domain.Asset}
	assert.True(t, cash.IsDebitNormal())

	payable := domain.Account{AccountNumber: "2000", AccountType: domain.Liability}
	assert.False(t, payable.IsDebitNormal())
}
