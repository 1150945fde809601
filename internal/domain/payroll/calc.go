package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of decimal places kept on money amounts.
const CurrencyScale = 2

var (
	hoursPerDay    = decimal.NewFromInt(8)
	overtimeFactor = decimal.NewFromFloat(1.5)
	insuranceRate  = decimal.NewFromFloat(0.105)
	zero           = decimal.Zero
)

// WorkDaysInMonth counts Monday to Friday in the month. Holidays are not consulted.
func WorkDaysInMonth(year, month int) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := 0
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// AttendanceSummary - aggregate of one month of attendance rows
type AttendanceSummary struct {
	ActualWorkDays int
	LateDays       int
	EarlyLeaveDays int
	OvertimeHours  decimal.Decimal
}

// Summarize aggregates ledger rows. A day counts as worked only with both clock-in and clock-out.
func Summarize(records []attendance.Record) AttendanceSummary {
	s := AttendanceSummary{OvertimeHours: zero}
	for _, r := range records {
		if r.Worked() {
			s.ActualWorkDays++
		}
		switch r.Status {
		case attendance.StatusLate:
			s.LateDays++
		case attendance.StatusEarlyLeave:
			s.EarlyLeaveDays++
		}
		s.OvertimeHours = s.OvertimeHours.Add(r.OvertimeHours)
	}
	return s
}

// Inputs to a slip computation.
type Inputs struct {
	BaseSalary     decimal.Decimal
	WorkDays       int
	ActualWorkDays int
	OvertimeHours  decimal.Decimal
	Bonus          decimal.Decimal
	Allowance      decimal.Decimal
	Deductions     decimal.Decimal

	// OvertimePay, when set, replaces the attendance-derived amount.
	OvertimePay *decimal.Decimal
}

// Breakdown is the computed side of a slip.
type Breakdown struct {
	DailyRate     decimal.Decimal
	OvertimeRate  decimal.Decimal
	ActualBasePay decimal.Decimal
	OvertimePay   decimal.Decimal
	Insurance     decimal.Decimal
	TaxableIncome decimal.Decimal
	Tax           decimal.Decimal
	NetSalary     decimal.Decimal
}

// Compute derives every monetary component of a slip. Products are taken before
// quotients so a full month of attendance pays exactly the base salary.
func Compute(in Inputs) Breakdown {
	var b Breakdown

	if in.WorkDays > 0 {
		workDays := decimal.NewFromInt(int64(in.WorkDays))
		workHours := workDays.Mul(hoursPerDay)

		b.DailyRate = in.BaseSalary.Div(workDays).Round(CurrencyScale)
		b.ActualBasePay = in.BaseSalary.Mul(decimal.NewFromInt(int64(in.ActualWorkDays))).Div(workDays).Round(CurrencyScale)
		b.OvertimeRate = in.BaseSalary.Mul(overtimeFactor).Div(workHours).Round(CurrencyScale)
		b.OvertimePay = in.BaseSalary.Mul(overtimeFactor).Mul(in.OvertimeHours).Div(workHours).Round(CurrencyScale)
	}
	if in.OvertimePay != nil {
		b.OvertimePay = in.OvertimePay.Round(CurrencyScale)
	}

	b.Insurance = in.BaseSalary.Mul(insuranceRate).Round(CurrencyScale)
	b.TaxableIncome = b.ActualBasePay.
		Add(b.OvertimePay).
		Add(in.Bonus).
		Add(in.Allowance).
		Sub(in.Deductions).
		Sub(b.Insurance)
	b.Tax = Tax(b.TaxableIncome)
	b.NetSalary = decimal.Max(zero, b.TaxableIncome.Sub(b.Tax))
	return b
}
