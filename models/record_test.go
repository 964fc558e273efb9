package models

import (
	"testing"
	"time"
)

func TestMonthOfCoversCalendar(t *testing.T) {
	cases := map[time.Month]Month{
		time.January:  January,
		time.June:     June,
		time.December: December,
	}
	for calendar, want := range cases {
		if got := MonthOf(calendar); got != want {
			t.Fatalf("MonthOf(%s) = %s, want %s", calendar, got, want)
		}
	}
}

func TestMonthValid(t *testing.T) {
	if !March.Valid() {
		t.Fatal("expected MARCH to be valid")
	}
	if Month("SMARCH").Valid() {
		t.Fatal("expected SMARCH to be invalid")
	}
	if Month("march").Valid() {
		t.Fatal("month names are upper case only")
	}
}

func TestCurrencyValid(t *testing.T) {
	for _, c := range []Currency{CurrencyNGN, CurrencyUSD, CurrencyEUR, CurrencyGBP} {
		if !c.Valid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if Currency("BTC").Valid() {
		t.Fatal("expected BTC to be invalid")
	}
}
