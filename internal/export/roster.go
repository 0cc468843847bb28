package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
)

const (
	sheetMembers  = "Members"
	sheetPayments = "Payments"
	rosterDate    = "2006-01-02"
)

// MemberRow is one roster line, flattened for spreadsheets and Parquet.
type MemberRow struct {
	FileName        string `parquet:"file_name"`
	TransactionType string `parquet:"transaction_type"`
	MemberID        string `parquet:"member_id"`
	LastName        string `parquet:"last_name"`
	FirstName       string `parquet:"first_name"`
	MiddleName      string `parquet:"middle_name"`
	DateOfBirth     string `parquet:"date_of_birth"`
	Gender          string `parquet:"gender"`
	City            string `parquet:"city"`
	State           string `parquet:"state"`
	PostalCode      string `parquet:"postal_code"`
	Status          string `parquet:"status"`
}

type PaymentRow struct {
	FileName    string
	TraceNumber string
	Method      string
	Amount      string
	PaymentDate string
	Status      string
}

var (
	memberHeader  = []any{"File", "Type", "Member ID", "Last Name", "First Name", "Middle Name", "Date of Birth", "Gender", "City", "State", "Postal Code", "Status"}
	paymentHeader = []any{"File", "Trace Number", "Method", "Amount", "Payment Date", "Status"}
)

// Rows flattens a stored file into roster rows. Files without a transaction yield none.
func Rows(d *edifile.Detail) ([]MemberRow, []PaymentRow) {
	if d.Transaction == nil {
		return nil, nil
	}

	members := make([]MemberRow, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, MemberRow{
			FileName:        d.File.FileName,
			TransactionType: string(d.Transaction.TransactionType),
			MemberID:        m.MemberID,
			LastName:        m.LastName,
			FirstName:       m.FirstName,
			MiddleName:      m.MiddleName,
			DateOfBirth:     formatDate(m.DateOfBirth),
			Gender:          m.Gender,
			City:            m.City,
			State:           m.State,
			PostalCode:      m.PostalCode,
			Status:          string(m.Status),
		})
	}

	payments := make([]PaymentRow, 0, len(d.Payments))
	for _, p := range d.Payments {
		payments = append(payments, PaymentRow{
			FileName:    d.File.FileName,
			TraceNumber: p.TraceNumber,
			Method:      p.Method,
			Amount:      p.Amount.StringFixed(2),
			PaymentDate: formatDate(p.PaymentDate),
			Status:      string(p.Status),
		})
	}

	return members, payments
}

// WriteXLSX writes a workbook with a Members and a Payments sheet.
func WriteXLSX(w io.Writer, members []MemberRow, payments []PaymentRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetMembers); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if _, err := f.NewSheet(sheetPayments); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	memberRows := make([][]any, 0, len(members))
	for _, m := range members {
		memberRows = append(memberRows, []any{
			m.FileName, m.TransactionType, m.MemberID, m.LastName, m.FirstName, m.MiddleName,
			m.DateOfBirth, m.Gender, m.City, m.State, m.PostalCode, m.Status,
		})
	}

	paymentRows := make([][]any, 0, len(payments))
	for _, p := range payments {
		paymentRows = append(paymentRows, []any{p.FileName, p.TraceNumber, p.Method, p.Amount, p.PaymentDate, p.Status})
	}

	if err := writeSheet(f, sheetMembers, bold, memberHeader, memberRows); err != nil {
		return err
	}

	if err := writeSheet(f, sheetPayments, bold, paymentHeader, paymentRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}

	return nil
}

// WriteParquet writes the member roster as a Snappy-compressed Parquet file.
func WriteParquet(w io.Writer, members []MemberRow) error {
	writer := parquet.NewGenericWriter[MemberRow](w,
		parquet.Compression(&parquet.Snappy),
	)

	if _, err := writer.Write(members); err != nil {
		writer.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}

	return nil
}
