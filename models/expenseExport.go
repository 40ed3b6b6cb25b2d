package models

import (
	"context"
	"fmt"
	"io"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const expenseSheet = "Expenses"

var expenseExportHeaders = []string{
	"ID", "Date", "Description", "Category", "Amount USD", "Amount PEN", "Exchange Rate",
	"Payment Method", "Payment Status", "Supplier", "Invoice Number", "Notes",
}

// ListAllExpenses returns every expense matching the filter, in list order.
func ListAllExpenses(ctx context.Context, filter ExpenseFilter) ([]*Expense, error) {
	db := config.GetDB()
	dbCtx := filter.Apply(db.WithContext(ctx).Model(&Expense{}))
	for _, order := range filter.OrderClauses() {
		dbCtx = dbCtx.Order(order)
	}
	var expenses []*Expense
	if err := dbCtx.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ExportExpenses writes the filtered expenses as an xlsx workbook, followed by a totals row.
func ExportExpenses(ctx context.Context, filter ExpenseFilter, w io.Writer) error {
	expenses, err := ListAllExpenses(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", expenseSheet); err != nil {
		return err
	}

	// Add headers
	for i, header := range expenseExportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(expenseSheet, cell, header); err != nil {
			return err
		}
	}

	// Add data
	for i, e := range expenses {
		row := i + 2
		values := []interface{}{
			e.ID,
			e.ExpenseDate.String(),
			e.Description,
			e.Category,
			excelDecimal(e.AmountUsd),
			excelDecimal(e.AmountPen),
			excelDecimal(e.ExchangeRate),
			string(e.PaymentMethod),
			string(utils.DereferencePtr(e.PaymentStatus)),
			utils.DereferencePtr(e.Supplier),
			utils.DereferencePtr(e.InvoiceNumber),
			utils.DereferencePtr(e.Notes),
		}
		if err := f.SetSheetRow(expenseSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	summary := SummarizeExpenses(expenses)
	totalRow := len(expenses) + 2
	if err := f.SetCellValue(expenseSheet, fmt.Sprintf("E%d", totalRow), "Total PEN"); err != nil {
		return err
	}
	if err := f.SetCellValue(expenseSheet, fmt.Sprintf("F%d", totalRow), summary.Total.InexactFloat64()); err != nil {
		return err
	}

	return f.Write(w)
}

func excelDecimal(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
