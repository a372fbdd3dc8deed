// Package report renders the activation history as an Excel workbook.
package report

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrNoRows = errors.New("failed to generate report, no purchases were provided")

const (
	maxSheetName  = 31
	headerIndex   = 2
	unknownSheet  = "Без подразделения"
	dateLayout    = "02.01.2006 15:04"
	lastColumn    = "J"
	headerHeight  = 20
	tableStyle    = "TableStyleMedium9"
	defaultSheet  = "Sheet1"
	missingMarker = "-"
)

var headers = []string{
	"ID", "Товар", "Сотрудник", "Руководитель", "Статус",
	"Куплено", "Решение", "Активации", "Комментарий сотрудника", "Комментарий менеджера",
}

var widths = map[string]float64{
	"A": 8, "B": 30, "C": 30, "D": 30, "E": 12, "F": 18, "G": 18, "H": 12, "I": 40, "J": 40,
}

// HistoryRow is one purchase line of the export.
type HistoryRow struct {
	PurchaseID     int64
	Product        string
	Buyer          string
	Division       string
	Manager        string
	Status         models.PurchaseStatus
	BoughtAt       time.Time
	DecidedAt      *time.Time
	UsageCount     int
	UsageLimit     int
	UserComment    string
	ManagerComment string
}

// RowFromDetails flattens purchase details into an export row.
func RowFromDetails(details models.PurchaseDetails) HistoryRow {
	row := HistoryRow{
		PurchaseID: details.Purchase.ID,
		Product:    details.Product.Name,
		Status:     details.Purchase.Status,
		BoughtAt:   details.Purchase.BoughtAt,
		DecidedAt:  details.Purchase.UpdatedAt,
		UsageCount: details.Purchase.UsageCount,
		UsageLimit: details.Product.Count,
	}
	if details.Buyer != nil {
		row.Buyer = details.Buyer.FullName
		row.Division = details.Buyer.Division
	}
	if details.Manager != nil {
		row.Manager = details.Manager.FullName
	}
	if details.Purchase.UserComment != nil {
		row.UserComment = *details.Purchase.UserComment
	}
	if details.Purchase.ManagerComment != nil {
		row.ManagerComment = *details.Purchase.ManagerComment
	}
	return row
}

type generator struct {
	file *excelize.File
}

// GenerateHistoryReport builds a workbook with one sheet per buyer division. Rows
// keep their input order within a sheet; sheets are sorted by name.
func GenerateHistoryReport(rows []HistoryRow) (*bytes.Buffer, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	rowsByDivision := make(map[string][]HistoryRow)
	for _, row := range rows {
		sheet := row.Division
		if sheet == "" {
			sheet = unknownSheet
		}
		rowsByDivision[sheet] = append(rowsByDivision[sheet], row)
	}

	gen := &generator{file: excelize.NewFile()}
	defer gen.file.Close()

	sheets := make([]string, 0, len(rowsByDivision))
	for name := range rowsByDivision {
		sheets = append(sheets, name)
	}
	slices.SortFunc(sheets, cmp.Compare[string])

	for i, name := range sheets {
		if err := gen.addSheet(name, i, rowsByDivision[name]); err != nil {
			return nil, err
		}
	}

	if idx, _ := gen.file.GetSheetIndex(defaultSheet); idx != -1 {
		if err := gen.file.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet '%s': %w", defaultSheet, err)
		}
	}
	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func (g *generator) addSheet(division string, index int, rows []HistoryRow) error {
	sheetName := truncateSheetName(division)
	if _, err := g.file.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to generate new sheet '%s': %w", sheetName, err)
	}

	if err := g.setupSheet(sheetName, index, len(rows)); err != nil {
		return fmt.Errorf("failed to setup sheet '%s': %w", sheetName, err)
	}

	for i, row := range rows {
		if err := g.addRow(sheetName, i+headerIndex, row); err != nil {
			return fmt.Errorf("failed to add row '%d': %w", i+headerIndex, err)
		}
	}
	return nil
}

func (g *generator) setupSheet(sheetName string, index, rowCount int) error {
	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	if err = g.file.SetRowHeight(sheetName, 1, headerHeight); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	for col, width := range widths {
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Table names must be unique and ASCII-safe, division names are neither.
	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastColumn, rowCount+1),
		Name:      fmt.Sprintf("history_%d", index+1),
		StyleName: tableStyle,
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}

func (g *generator) addRow(sheetName string, rowNum int, row HistoryRow) error {
	decided := missingMarker
	if row.DecidedAt != nil {
		decided = row.DecidedAt.Format(dateLayout)
	}

	rowData := []interface{}{
		row.PurchaseID,
		row.Product,
		orMissing(row.Buyer),
		orMissing(row.Manager),
		string(row.Status),
		row.BoughtAt.Format(dateLayout),
		decided,
		fmt.Sprintf("%d/%d", row.UsageCount, row.UsageLimit),
		row.UserComment,
		row.ManagerComment,
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}

	if err = g.file.SetSheetRow(sheetName, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}
	return nil
}

func orMissing(value string) string {
	if strings.TrimSpace(value) == "" {
		return missingMarker
	}
	return value
}

// truncateSheetName cuts name to the 31 runes Excel allows.
func truncateSheetName(name string) string {
	if utf8.RuneCountInString(name) > maxSheetName {
		return string([]rune(name)[:maxSheetName])
	}
	return name
}
