package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loan-origination/pkg/money"
)

// AmortizationEntry is an immutable value object representing one period in a
// repayment schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// GenerateAmortizationSchedule splits a fixed installment into interest and
// principal for each month of a reducing-balance loan.
//
// emi is the already-rounded installment printed on the sanction letter, so
// the schedule and the letter agree. Interest for a period is
// round(balance × annualRatePct / 1200). The last period absorbs the rounding
// residue so the balance reaches exactly zero. Installments fall on the
// start date's day of month, or the month's last day when it is shorter.
func GenerateAmortizationSchedule(
	principal, annualRatePct, emi decimal.Decimal,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || !principal.IsPositive() || !emi.IsPositive() {
		return nil
	}

	monthlyRate := annualRatePct.DivRound(decimal.NewFromInt(1200), 28)

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := money.RoundMinor(remaining.Mul(monthlyRate))
		principalPart := emi.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          dueDate(startDate, period),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule
}

// ScheduleTotals are the column sums of a repayment schedule.
type ScheduleTotals struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Total     decimal.Decimal
}

// SumSchedule adds up a schedule. Each installment is rounded to the paisa,
// so Total can differ by a few paise from TotalPayable, which is computed
// from the unrounded EMI.
func SumSchedule(schedule []AmortizationEntry) ScheduleTotals {
	t := ScheduleTotals{Principal: decimal.Zero, Interest: decimal.Zero, Total: decimal.Zero}
	for _, e := range schedule {
		t.Principal = t.Principal.Add(e.Principal)
		t.Interest = t.Interest.Add(e.Interest)
		t.Total = t.Total.Add(e.Total)
	}
	return t
}

// dueDate returns start moved forward by n calendar months, clamped to the
// end of the target month so that a 31 January start falls due on 28 or 29
// February instead of rolling into March.
func dueDate(start time.Time, n int) time.Time {
	y, m, d := start.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, start.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	h, mi, sec := start.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, h, mi, sec, start.Nanosecond(), start.Location())
}
