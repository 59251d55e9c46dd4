package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSavings(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses string
		tier     Tier
		rate     string
	}{
		{"no income", "0", "100", TierNoData, ""},
		{"excellent", "1000", "700", TierExcellent, "0.3"},
		{"excellent boundary", "1000", "800", TierExcellent, "0.2"},
		{"good", "1000", "850", TierGood, "0.15"},
		{"good boundary", "1000", "900", TierGood, "0.1"},
		{"minimal", "1000", "950", TierMinimal, "0.05"},
		{"break even", "1000", "1000", TierOverspending, "0"},
		{"overspending", "1000", "1200", TierOverspending, "-0.2"},
		{"just under excellent", "1", "0.80000000000000001", TierGood, ""},
		{"just under good", "1", "0.90000000000000001", TierMinimal, ""},
		{"just above zero", "1", "0.99999999999999999", TierMinimal, ""},
		{"negative income", "-100", "-50", TierExcellent, "0.5"},
		{"negative income overspending", "-100", "-150", TierOverspending, "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSavings(dec(tt.income), dec(tt.expenses))

			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.tier.Message(), got.Message)
			if tt.tier == TierNoData {
				assert.Nil(t, got.Rate)
				return
			}
			require.NotNil(t, got.Rate)
			if tt.rate == "" {
				return
			}
			assert.True(t, got.Rate.Equal(dec(tt.rate)), "rate %s", got.Rate)
		})
	}
}

func TestSuggestSavings_Messages(t *testing.T) {
	assert.Equal(t, "No income data available for savings suggestions.",
		SuggestSavings(dec("0"), dec("0")).Message)
	assert.Equal(t, "Great job! You're saving more than 20% of your income.",
		SuggestSavings(dec("1000"), dec("700")).Message)
	assert.Equal(t, "Good progress! Try increasing savings to 20% of income.",
		SuggestSavings(dec("1000"), dec("850")).Message)
	assert.Equal(t, "Warning: You're spending more than you earn. Review expenses.",
		SuggestSavings(dec("1000"), dec("1200")).Message)
}

func TestSuggestFromSummary(t *testing.T) {
	s := Summarize([]Transaction{
		{Kind: KindIncome, Amount: dec("1000"), Category: "salary", Date: NewDate(2024, 3, 1)},
		{Kind: KindExpense, Amount: dec("350"), Category: "rent", Date: NewDate(2024, 3, 5)},
	}, NewDate(2024, 3, 10))

	assert.Equal(t, TierExcellent, SuggestFromSummary(s).Tier)
}
