/*
rate.go - Base hourly rate resolution

PURPOSE:
  Answers one question: what does this staff member earn per hour on this
  calendar date? Day-specific rate rows beat the default row, holiday markup
  sits on top, and a missing rate resolves to zero rather than an error so a
  single unconfigured staff member never sinks a whole report.

RESOLUTION ORDER:
  1. Rate row whose RateType matches the weekday and whose
     [EffectiveDate, EndDate] window covers the date
  2. Otherwise the "default" row covering the date
  3. Otherwise zero

HOLIDAY MARKUP (only when staff.AppliesPublicHolidayRules):
  - MarkupPercentage > 0: rate becomes rate * pct / 100 (replaces)
  - else MarkupAmount > 0: amount is added on top
  Percentage always wins when both are set. Inactive holidays are ignored.
*/
package wage

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ResolveBaseRate returns the effective hourly rate for a staff member on a
// date. Rows are scanned in storage order; the first match wins.
func ResolveBaseRate(staff Staff, rates []StaffRate, holidays []PublicHoliday, date Date) decimal.Decimal {
	rate := rateForDate(rates, date)

	if !staff.AppliesPublicHolidayRules {
		return rate
	}

	holiday := holidayOn(holidays, date)
	if holiday == nil {
		return rate
	}

	if holiday.MarkupPercentage.IsPositive() {
		return rate.Mul(holiday.MarkupPercentage).Div(oneHundred)
	}
	if holiday.MarkupAmount.IsPositive() {
		return rate.Add(holiday.MarkupAmount)
	}
	return rate
}

func rateForDate(rates []StaffRate, date Date) decimal.Decimal {
	dayType := RateTypeFor(date.Weekday())

	for _, r := range rates {
		if r.RateType == dayType && r.AppliesOn(date) {
			return r.Rate
		}
	}
	for _, r := range rates {
		if r.RateType == RateDefault && r.AppliesOn(date) {
			return r.Rate
		}
	}
	return decimal.Zero
}

func holidayOn(holidays []PublicHoliday, date Date) *PublicHoliday {
	for i := range holidays {
		h := &holidays[i]
		if h.Active && h.Date.Equal(date) {
			return h
		}
	}
	return nil
}

// HolidayNameOn returns the active holiday name for a date, or "".
func HolidayNameOn(holidays []PublicHoliday, date Date) string {
	if h := holidayOn(holidays, date); h != nil {
		return h.Name
	}
	return ""
}
