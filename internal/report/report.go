package report

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrNoProfiles = errors.New("failed to generate export, 0 profiles were provided")

// maxSheetName is the longest sheet name excel accepts.
const maxSheetName = 31

var (
	headers       = []string{"Staff ID", "Name", "Phone", "Street", "City", "State", "ZIP", "Country"}
	invalidSheet  = regexp.MustCompile(`[:\\/?*\[\]]`)
	invalidTable  = regexp.MustCompile(`[^A-Za-z0-9_]`)
	columnWidths  = map[string]float64{"A": 10, "B": 30, "C": 18, "D": 30, "E": 20, "F": 14, "G": 10, "H": 18}
	lastHeaderCol = "H"
)

// defaultSheet is the sheet a new workbook starts with.
const defaultSheet = "Sheet1"

// sheetGroup is the profiles written to one sheet under the first spelling seen.
type sheetGroup struct {
	name     string
	profiles []models.Profile
}

// Generator holds the state for the Excel export.
type Generator struct {
	file *excelize.File
}

// NewGenerator creates a new export generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateDirectoryExport writes the profiles into an Excel workbook with one sheet
// per department, sorted by department name. Each sheet has a styled header row and
// an Excel table covering the profiles of that department.
//
// Returns:
// - A buffer holding the workbook.
// - ErrNoProfiles when profiles is empty, or an error if any excel operation fails.
func GenerateDirectoryExport(profiles []models.Profile) (*bytes.Buffer, error) {
	var err error

	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}

	// excel compares sheet names ignoring case, so departments whose sheet names
	// fold to the same key share one sheet
	bySheet := make(map[string]*sheetGroup)
	for _, profile := range profiles {
		name := SheetName(profile.Department)
		key := strings.ToLower(name)
		group, ok := bySheet[key]
		if !ok {
			group = &sheetGroup{name: name}
			bySheet[key] = group
		}
		group.profiles = append(group.profiles, profile)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err = gen.addSheets(bySheet); err != nil {
		return nil, fmt.Errorf("failed to add sheets: %w", err)
	}

	// delete default sheet
	if _, ok := bySheet[strings.ToLower(defaultSheet)]; !ok {
		if err = gen.file.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet '%s': %w", defaultSheet, err)
		}
	}
	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

// addSheets creates one sheet per group in name order and fills it.
func (g *Generator) addSheets(bySheet map[string]*sheetGroup) error {
	var err error
	headerIndex := 2

	groups := make([]*sheetGroup, 0, len(bySheet))
	for _, group := range bySheet {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })

	for idx, group := range groups {
		sheetName, profiles := group.name, group.profiles

		if sheetName != defaultSheet && strings.EqualFold(sheetName, defaultSheet) {
			// the default sheet already holds this name in another case
			sheetName = defaultSheet
		}

		if _, err = g.file.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to generate new sheet '%s': %w", sheetName, err)
		}

		if err = g.setupSheet(sheetName, idx, len(profiles)); err != nil {
			return fmt.Errorf("failed to setup sheet '%s': %w", sheetName, err)
		}

		sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].StaffID < profiles[j].StaffID })
		for i, profile := range profiles {
			if err = g.addRow(sheetName, i+headerIndex, profile); err != nil { // first row is the header
				return fmt.Errorf("failed to add row '%d': %w", i+headerIndex, err)
			}
		}
	}
	return nil
}

// setupSheet writes the styled header row, sets column widths and adds a table
// spanning the header and rowCount data rows.
func (g *Generator) setupSheet(sheetName string, sheetIdx, rowCount int) error {
	var err error

	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	rowHeight := 20
	if err = g.file.SetRowHeight(sheetName, 1, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", lastHeaderCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	for col, width := range columnWidths {
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastHeaderCol, rowCount+1),
		Name:      tableName(sheetName, sheetIdx),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

// addRow writes one profile into the given row.
func (g *Generator) addRow(sheetName string, rowNum int, profile models.Profile) error {
	rowData := []interface{}{
		profile.StaffID,
		profile.Name,
		profile.Phone,
		profile.Address.Street,
		profile.Address.City,
		profile.Address.State,
		profile.Address.ZIP,
		profile.Address.Country,
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheetName, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}

// SheetName turns a department name into a valid sheet name: characters excel
// rejects are replaced with '_', the result is cut to 31 runes and a leading or
// trailing single quote becomes '_'.
func SheetName(department string) string {
	name := invalidSheet.ReplaceAllString(department, "_")
	if name == "" {
		name = "_"
	}

	runes := []rune(name)
	if utf8.RuneCountInString(name) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	if runes[0] == '\'' {
		runes[0] = '_'
	}
	if last := len(runes) - 1; runes[last] == '\'' {
		runes[last] = '_'
	}

	return string(runes)
}

// tableName builds a workbook-unique table name from the sheet name.
func tableName(sheetName string, sheetIdx int) string {
	return fmt.Sprintf("table_%d_%s", sheetIdx, invalidTable.ReplaceAllString(sheetName, ""))
}
