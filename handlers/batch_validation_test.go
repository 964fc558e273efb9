package handlers

import (
	"testing"

	"github.com/shopspring/decimal"

	"accountant-api/models"
)

func TestValidateTrackerEntriesChecksWholeBatch(t *testing.T) {
	good := models.CreateTrackerRequest{
		Amount:   decimal.NewFromInt(100),
		Label:    "groceries",
		Currency: models.CurrencyNGN,
	}

	if msg := validateTrackerEntries([]models.CreateTrackerRequest{good, good}); msg != "" {
		t.Fatalf("expected clean batch to pass, got %q", msg)
	}

	// A bad entry anywhere in the list rejects the batch before any write.
	bad := good
	bad.Currency = "DOGE"
	if msg := validateTrackerEntries([]models.CreateTrackerRequest{good, bad}); msg != "Unknown currency" {
		t.Fatalf("expected trailing bad entry to reject the batch, got %q", msg)
	}

	negative := good
	negative.Amount = decimal.NewFromInt(-1)
	if msg := validateTrackerEntries([]models.CreateTrackerRequest{negative, good}); msg != "Amount must not be negative" {
		t.Fatalf("expected negative amount rejection, got %q", msg)
	}
}

func TestValidateEarningEntriesChecksWholeBatch(t *testing.T) {
	good := models.CreateEarningRequest{
		Amount:   decimal.NewFromInt(5000),
		Currency: models.CurrencyNGN,
		PayDate:  "2026-08-28",
		Month:    models.August,
	}

	payDates, msg := validateEarningEntries([]models.CreateEarningRequest{good, good})
	if msg != "" {
		t.Fatalf("expected clean batch to pass, got %q", msg)
	}
	if len(payDates) != 2 {
		t.Fatalf("expected a parsed pay date per entry, got %d", len(payDates))
	}
	if payDates[0].Format("2006-01-02") != "2026-08-28" {
		t.Fatalf("unexpected parsed pay date %s", payDates[0])
	}

	badDate := good
	badDate.PayDate = "28/08/2026"
	if _, msg := validateEarningEntries([]models.CreateEarningRequest{good, badDate}); msg != "pay_date must be YYYY-MM-DD" {
		t.Fatalf("expected trailing bad pay date to reject the batch, got %q", msg)
	}

	badMonth := good
	badMonth.Month = "SMARCH"
	if _, msg := validateEarningEntries([]models.CreateEarningRequest{badMonth, good}); msg != "Unknown month" {
		t.Fatalf("expected unknown month rejection, got %q", msg)
	}
}
