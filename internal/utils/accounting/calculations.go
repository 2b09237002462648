package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// CalculateSignedAmount applies the correct sign to an entry amount based on
// the account's type. Services and repositories both use it so balance math
// stays consistent everywhere.
//
// DEBIT to ASSET/EXPENSE -> positive; CREDIT to ASSET/EXPENSE -> negative.
// DEBIT to LIABILITY/EQUITY/REVENUE -> negative; CREDIT -> positive.
func CalculateSignedAmount(entry domain.JournalEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	if entry.EntryType == accountType.NormalSide() {
		return entry.Amount, nil
	}
	return entry.Amount.Neg(), nil
}

// SumEntries totals the debit and credit sides of a set of entries.
func SumEntries(entries []domain.JournalEntry) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, e := range entries {
		if e.EntryType == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits
}

// EntriesBalance reports whether debits equal credits across the entries.
func EntriesBalance(entries []domain.JournalEntry) bool {
	debits, credits := SumEntries(entries)
	return debits.Equal(credits)
}

// NetOnNormalSide nets debit and credit totals onto the account's normal
// side. Positive means the account carries its usual balance; negative means
// the activity has flipped it to the other side.
func NetOnNormalSide(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.NormalSide() == domain.Debit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
