package services

import (
	"github.com/shopspring/decimal"

	"accountant-api/models"
)

// BuildDashboard folds a sequence of monetary records into the two views the
// dashboard screens consume:
//
//   - summary: total amount per currency per year
//   - yearly chart: amount per year per currency per month
//
// The fold is a single pass and purely additive, so input order never
// changes the result. Sibling keys are merged, never replaced, and repeated
// (year, currency, month) triples accumulate.
func BuildDashboard(records []models.MonetaryRecord) models.Dashboard {
	dashboard := models.Dashboard{
		Summary:     make(map[models.Currency]map[int]decimal.Decimal),
		YearlyChart: make(map[int]map[models.Currency]map[models.Month]*models.MonthCell),
	}

	for _, record := range records {
		years, ok := dashboard.Summary[record.Currency]
		if !ok {
			years = make(map[int]decimal.Decimal)
			dashboard.Summary[record.Currency] = years
		}
		years[record.Year] = years[record.Year].Add(record.Amount)

		currencies, ok := dashboard.YearlyChart[record.Year]
		if !ok {
			currencies = make(map[models.Currency]map[models.Month]*models.MonthCell)
			dashboard.YearlyChart[record.Year] = currencies
		}
		monthsOfYear, ok := currencies[record.Currency]
		if !ok {
			monthsOfYear = make(map[models.Month]*models.MonthCell)
			currencies[record.Currency] = monthsOfYear
		}
		cell, ok := monthsOfYear[record.Month]
		if !ok {
			// PercentageChange stays at its zero value; the month-over-month
			// computation has not been built yet.
			cell = &models.MonthCell{}
			monthsOfYear[record.Month] = cell
		}
		cell.Amount = cell.Amount.Add(record.Amount)
	}

	return dashboard
}

// ActivityRow is one investment activity joined with its platform name.
type ActivityRow struct {
	Platform        string
	TransactionType string
	Currency        models.Currency
	Amount          decimal.Decimal
}

// BuildInvestmentDashboard rolls activities up into cash-in / cash-out per
// currency under each platform name. Credits are inflows, debits outflows.
func BuildInvestmentDashboard(rows []ActivityRow) models.InvestmentDashboard {
	result := make(map[string]*models.PlatformCashflow)

	for _, row := range rows {
		flow, ok := result[row.Platform]
		if !ok {
			flow = &models.PlatformCashflow{
				CashIn:  make(map[models.Currency]decimal.Decimal),
				CashOut: make(map[models.Currency]decimal.Decimal),
			}
			result[row.Platform] = flow
		}

		if row.TransactionType == models.TransactionCredit {
			flow.CashIn[row.Currency] = flow.CashIn[row.Currency].Add(row.Amount)
		} else {
			flow.CashOut[row.Currency] = flow.CashOut[row.Currency].Add(row.Amount)
		}
	}

	return models.InvestmentDashboard{Result: result}
}
