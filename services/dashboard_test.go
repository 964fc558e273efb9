package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"accountant-api/models"
)

func record(amount int64, currency models.Currency, month models.Month, year int) models.MonetaryRecord {
	return models.MonetaryRecord{
		Amount:   decimal.NewFromInt(amount),
		Currency: currency,
		Month:    month,
		Year:     year,
	}
}

func TestBuildDashboardSummary(t *testing.T) {
	dashboard := BuildDashboard([]models.MonetaryRecord{
		record(100, models.CurrencyNGN, models.January, 2024),
		record(50, models.CurrencyNGN, models.February, 2024),
		record(30, models.CurrencyNGN, models.January, 2025),
	})

	years, ok := dashboard.Summary[models.CurrencyNGN]
	if !ok {
		t.Fatal("expected NGN in summary")
	}
	if got := years[2024]; !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected NGN 2024 total 150, got %s", got)
	}
	if got := years[2025]; !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected NGN 2025 total 30, got %s", got)
	}
}

func TestBuildDashboardMergesSiblingKeys(t *testing.T) {
	// Records landing in the same year but different currencies, and the same
	// currency in different months, must coexist instead of replacing each
	// other.
	dashboard := BuildDashboard([]models.MonetaryRecord{
		record(100, models.CurrencyNGN, models.January, 2024),
		record(200, models.CurrencyUSD, models.January, 2024),
		record(40, models.CurrencyNGN, models.March, 2024),
	})

	year := dashboard.YearlyChart[2024]
	if year == nil {
		t.Fatal("expected 2024 in yearly chart")
	}
	if len(year) != 2 {
		t.Fatalf("expected 2 currencies under 2024, got %d", len(year))
	}

	ngn := year[models.CurrencyNGN]
	if len(ngn) != 2 {
		t.Fatalf("expected 2 NGN months under 2024, got %d", len(ngn))
	}
	if got := ngn[models.January].Amount; !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected NGN January 100, got %s", got)
	}
	if got := ngn[models.March].Amount; !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected NGN March 40, got %s", got)
	}
	if got := year[models.CurrencyUSD][models.January].Amount; !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected USD January 200, got %s", got)
	}
}

func TestBuildDashboardAccumulatesRepeatedTriples(t *testing.T) {
	dashboard := BuildDashboard([]models.MonetaryRecord{
		record(10, models.CurrencyEUR, models.June, 2024),
		record(15, models.CurrencyEUR, models.June, 2024),
		record(5, models.CurrencyEUR, models.June, 2024),
	})

	cell := dashboard.YearlyChart[2024][models.CurrencyEUR][models.June]
	if !cell.Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected June total 30, got %s", cell.Amount)
	}
	if !cell.PercentageChange.IsZero() {
		t.Fatalf("expected zero percentage change, got %s", cell.PercentageChange)
	}
	if got := dashboard.Summary[models.CurrencyEUR][2024]; !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected summary total 30, got %s", got)
	}
}

func TestBuildDashboardOrderIndependent(t *testing.T) {
	forward := []models.MonetaryRecord{
		record(100, models.CurrencyNGN, models.January, 2024),
		record(200, models.CurrencyUSD, models.July, 2024),
		record(30, models.CurrencyNGN, models.January, 2025),
		record(70, models.CurrencyNGN, models.January, 2025),
	}
	backward := make([]models.MonetaryRecord, len(forward))
	for i, r := range forward {
		backward[len(forward)-1-i] = r
	}

	a := BuildDashboard(forward)
	b := BuildDashboard(backward)

	for currency, years := range a.Summary {
		for year, amount := range years {
			if !b.Summary[currency][year].Equal(amount) {
				t.Fatalf("summary diverged at %s/%d: %s vs %s",
					currency, year, amount, b.Summary[currency][year])
			}
		}
	}
	for year, currencies := range a.YearlyChart {
		for currency, monthsOfYear := range currencies {
			for month, cell := range monthsOfYear {
				other := b.YearlyChart[year][currency][month]
				if other == nil || !other.Amount.Equal(cell.Amount) {
					t.Fatalf("chart diverged at %d/%s/%s", year, currency, month)
				}
			}
		}
	}
}

func TestBuildDashboardEmptyInput(t *testing.T) {
	dashboard := BuildDashboard(nil)
	if len(dashboard.Summary) != 0 || len(dashboard.YearlyChart) != 0 {
		t.Fatal("expected empty dashboard for no records")
	}
}

func TestBuildInvestmentDashboardSplitsFlows(t *testing.T) {
	amount := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
	rows := []ActivityRow{
		{Platform: "bamboo", TransactionType: models.TransactionCredit, Currency: models.CurrencyUSD, Amount: amount(500)},
		{Platform: "bamboo", TransactionType: models.TransactionCredit, Currency: models.CurrencyUSD, Amount: amount(250)},
		{Platform: "bamboo", TransactionType: models.TransactionDebit, Currency: models.CurrencyUSD, Amount: amount(100)},
		{Platform: "risevest", TransactionType: models.TransactionDebit, Currency: models.CurrencyNGN, Amount: amount(2000)},
	}

	dashboard := BuildInvestmentDashboard(rows)

	bamboo := dashboard.Result["bamboo"]
	if bamboo == nil {
		t.Fatal("expected bamboo in result")
	}
	if got := bamboo.CashIn[models.CurrencyUSD]; !got.Equal(amount(750)) {
		t.Fatalf("expected bamboo USD cash in 750, got %s", got)
	}
	if got := bamboo.CashOut[models.CurrencyUSD]; !got.Equal(amount(100)) {
		t.Fatalf("expected bamboo USD cash out 100, got %s", got)
	}

	risevest := dashboard.Result["risevest"]
	if risevest == nil {
		t.Fatal("expected risevest in result")
	}
	if len(risevest.CashIn) != 0 {
		t.Fatalf("expected no risevest cash in, got %+v", risevest.CashIn)
	}
	if got := risevest.CashOut[models.CurrencyNGN]; !got.Equal(amount(2000)) {
		t.Fatalf("expected risevest NGN cash out 2000, got %s", got)
	}
}
