package ofx

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/finlens/internal/budget"
	"github.com/Veraticus/finlens/internal/model"
	"github.com/Veraticus/finlens/internal/money"
)

// ImportedSpendingName names the variable expense created from statements.
const ImportedSpendingName = "Imported spending"

// topPayeeCount is how many payees Summarize ranks.
const topPayeeCount = 5

// PayeeTotal is the debit total for one payee.
type PayeeTotal struct {
	Payee string
	Total float64
}

// Summary condenses statement entries into monthly figures. Months are the
// calendar months that have at least one entry.
type Summary struct {
	TopPayees     []PayeeTotal
	Months        int
	Entries       int
	MonthlyIncome float64
	SpendingMin   float64
	SpendingMax   float64
}

// Summarize averages credits per month into income and takes the lowest and
// highest monthly debit totals as the spending range. Entries repeated across
// overlapping statements are counted once.
func Summarize(entries []Entry) Summary {
	type key struct{ account, id string }
	seen := make(map[key]bool, len(entries))

	spending := map[string]float64{}
	payees := map[string]float64{}
	var credits float64
	var s Summary

	for _, e := range entries {
		if e.ID != "" {
			k := key{e.Account, e.ID}
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		s.Entries++

		month := e.Date.UTC().Format("2006-01")
		if _, ok := spending[month]; !ok {
			spending[month] = 0
		}
		if e.Credit() {
			credits += e.Amount
			continue
		}
		spending[month] += -e.Amount
		payees[e.Payee] += -e.Amount
	}

	s.Months = len(spending)
	if s.Months == 0 {
		return s
	}

	s.MonthlyIncome = money.Round2(credits / float64(s.Months))
	s.SpendingMin = math.Inf(1)
	for _, total := range spending {
		s.SpendingMin = min(s.SpendingMin, total)
		s.SpendingMax = max(s.SpendingMax, total)
	}
	s.SpendingMin = money.Round2(s.SpendingMin)
	s.SpendingMax = money.Round2(s.SpendingMax)

	for payee, total := range payees {
		s.TopPayees = append(s.TopPayees, PayeeTotal{Payee: payee, Total: money.Round2(total)})
	}
	sort.Slice(s.TopPayees, func(i, j int) bool {
		if s.TopPayees[i].Total != s.TopPayees[j].Total {
			return s.TopPayees[i].Total > s.TopPayees[j].Total
		}
		return s.TopPayees[i].Payee < s.TopPayees[j].Payee
	})
	if len(s.TopPayees) > topPayeeCount {
		s.TopPayees = s.TopPayees[:topPayeeCount]
	}
	return s
}

// Apply writes the summary into a budget: monthly income replaces the
// budget income when any credits were seen, and the spending range replaces
// any earlier imported spending entry.
func (s Summary) Apply(b *model.BudgetState) error {
	if s.Months == 0 {
		return fmt.Errorf("statement has no entries to import")
	}
	if s.MonthlyIncome > 0 {
		b.Income = model.Number(s.MonthlyIncome)
	}

	kept := b.Variable[:0]
	for _, v := range b.Variable {
		if v.Name != ImportedSpendingName {
			kept = append(kept, v)
		}
	}
	b.Variable = kept

	detail := fmt.Sprintf("%d month(s) of statements", s.Months)
	_, err := budget.AddVariable(b, ImportedSpendingName, detail, s.SpendingMin, s.SpendingMax)
	return err
}
