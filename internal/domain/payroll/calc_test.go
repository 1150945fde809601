package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestWorkDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 1, 23},
		{2024, 2, 21}, // leap year
		{2023, 2, 20},
		{2024, 6, 20},
		{2024, 9, 21},
		{2025, 3, 21},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkDaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestCompute_FullMonthExample(t *testing.T) {
	b := Compute(Inputs{
		BaseSalary:     dec("20000000"),
		WorkDays:       22,
		ActualWorkDays: 22,
		OvertimeHours:  decimal.Zero,
	})

	assertDec(t, "20000000", b.ActualBasePay, "actual base pay")
	assertDec(t, "0", b.OvertimePay, "overtime pay")
	assertDec(t, "2100000", b.Insurance, "insurance")
	assertDec(t, "17900000", b.TaxableIncome, "taxable income")
	assertDec(t, "1040000", b.Tax, "tax")
	assertDec(t, "16860000", b.NetSalary, "net salary")
}

func TestCompute_PartialAttendanceAndOvertime(t *testing.T) {
	b := Compute(Inputs{
		BaseSalary:     dec("8800000"),
		WorkDays:       22,
		ActualWorkDays: 11,
		OvertimeHours:  dec("4"),
		Bonus:          dec("500000"),
		Allowance:      dec("300000"),
		Deductions:     dec("100000"),
	})

	assertDec(t, "400000", b.DailyRate, "daily rate")
	assertDec(t, "4400000", b.ActualBasePay, "actual base pay")
	assertDec(t, "75000", b.OvertimeRate, "overtime rate")
	assertDec(t, "300000", b.OvertimePay, "overtime pay")
	assertDec(t, "924000", b.Insurance, "insurance")
	// 4.4M + 300k + 500k + 300k - 100k - 924k
	assertDec(t, "4476000", b.TaxableIncome, "taxable income")
	assertDec(t, "0", b.Tax, "tax")
	assertDec(t, "4476000", b.NetSalary, "net salary")
}

func TestCompute_ZeroWorkDays(t *testing.T) {
	b := Compute(Inputs{
		BaseSalary:    dec("10000000"),
		WorkDays:      0,
		OvertimeHours: dec("5"),
	})

	assertDec(t, "0", b.DailyRate, "daily rate")
	assertDec(t, "0", b.ActualBasePay, "actual base pay")
	assertDec(t, "0", b.OvertimePay, "overtime pay")
	assertDec(t, "0", b.NetSalary, "net salary")
}

func TestCompute_NetNeverNegative(t *testing.T) {
	b := Compute(Inputs{
		BaseSalary:     dec("10000000"),
		WorkDays:       22,
		ActualWorkDays: 0,
		Deductions:     dec("5000000"),
	})

	assert.True(t, b.TaxableIncome.IsNegative())
	assertDec(t, "0", b.Tax, "tax")
	assertDec(t, "0", b.NetSalary, "net salary")
}

func TestCompute_OvertimeOverride(t *testing.T) {
	override := dec("123456.789")
	b := Compute(Inputs{
		BaseSalary:     dec("10000000"),
		WorkDays:       20,
		ActualWorkDays: 20,
		OvertimeHours:  dec("10"),
		OvertimePay:    &override,
	})

	assertDec(t, "123456.79", b.OvertimePay, "overtime pay")
}

func TestCompute_Idempotent(t *testing.T) {
	in := Inputs{
		BaseSalary:     dec("13750000"),
		WorkDays:       21,
		ActualWorkDays: 19,
		OvertimeHours:  dec("7.5"),
		Bonus:          dec("250000"),
	}
	assert.Equal(t, Compute(in), Compute(in))
}

func TestSummarize(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	in := func(d int) *time.Time { v := day(d).Add(8 * time.Hour); return &v }
	out := func(d int) *time.Time { v := day(d).Add(17 * time.Hour); return &v }

	records := []attendance.Record{
		{Date: day(3), ClockIn: in(3), ClockOut: out(3), Status: attendance.StatusOnTime, OvertimeHours: dec("1.5")},
		{Date: day(4), ClockIn: in(4), ClockOut: out(4), Status: attendance.StatusLate},
		{Date: day(5), ClockIn: in(5), ClockOut: nil, Status: attendance.StatusLate},
		{Date: day(6), ClockIn: in(6), ClockOut: out(6), Status: attendance.StatusEarlyLeave, OvertimeHours: dec("2")},
		{Date: day(7), Status: attendance.StatusAbsent},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.ActualWorkDays)
	assert.Equal(t, 2, s.LateDays)
	assert.Equal(t, 1, s.EarlyLeaveDays)
	assertDec(t, "3.5", s.OvertimeHours, "overtime hours")
}

func TestSlipStatus_IsSettled(t *testing.T) {
	assert.False(t, SlipStatusDraft.IsSettled())
	assert.False(t, SlipStatusPending.IsSettled())
	assert.False(t, SlipStatusApproved.IsSettled())
	assert.True(t, SlipStatusPaid.IsSettled())
	assert.True(t, SlipStatusConfirmed.IsSettled())
	assert.True(t, SlipStatusComplaining.IsSettled())
	assert.True(t, SlipStatusCancelled.IsSettled())
}
