// Package payslip renders a salary slip as a one-page A4 PDF.
package payslip

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	labelWidth  = 110.0
	amountWidth = 70.0
	lineHeight  = 7.0
)

// Render writes the PDF for slip to w.
func Render(w io.Writer, slip payroll.SalarySlip, company string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %02d/%d", slip.PeriodMonth, slip.PeriodYear), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, company, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip - %s %d", time.Month(slip.PeriodMonth), slip.PeriodYear), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, lineHeight, "Employee: "+deref(slip.EmployeeName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Employee code: "+deref(slip.EmployeeCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Department: "+deref(slip.DepartmentName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, "Status: "+string(slip.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Attendance")
	row(pdf, "Work days", fmt.Sprintf("%d", slip.WorkDays))
	row(pdf, "Days worked", fmt.Sprintf("%d", slip.ActualWorkDays))
	row(pdf, "Late days", fmt.Sprintf("%d", slip.LateDays))
	row(pdf, "Early leave days", fmt.Sprintf("%d", slip.EarlyLeaveDays))
	row(pdf, "Overtime hours", slip.OvertimeHours.StringFixed(2))
	pdf.Ln(3)

	section(pdf, "Earnings")
	row(pdf, "Base salary", money(slip.BaseSalary))
	row(pdf, "Base pay for days worked", money(slip.ActualBasePay))
	row(pdf, "Overtime pay", money(slip.OvertimePay))
	row(pdf, "Bonus", money(slip.Bonus))
	row(pdf, "Allowance", money(slip.Allowance))
	pdf.Ln(3)

	section(pdf, "Deductions")
	row(pdf, "Insurance", money(slip.Insurance))
	row(pdf, "Income tax", money(slip.Tax))
	row(pdf, "Other deductions", money(slip.Deductions))
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelWidth, 9, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, 9, money(slip.NetSalary), "T", 1, "R", false, 0, "")

	if slip.Note != nil && *slip.Note != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "Note: "+*slip.Note, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, lineHeight, value, "", 1, "R", false, 0, "")
}

// money formats with thousands separators, e.g. 15,000,000.00
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	if neg {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
