package report_test

import (
	"strings"
	"testing"

	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/UnknownOlympus/atlas/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func profile(id int, name, department string) models.Profile {
	return models.Profile{
		StaffID:    id,
		Name:       name,
		Phone:      "555-010" + string(rune('0'+id%10)),
		Department: department,
		Address: models.Address{
			Street:  "1 Main St",
			City:    "Metropolis",
			State:   "N/A",
			ZIP:     "10001",
			Country: "N/A",
		},
	}
}

func TestGenerateDirectoryExport(t *testing.T) {
	t.Parallel()

	profiles := []models.Profile{
		profile(3, "Carol", "Sales"),
		profile(1, "Alice", "Engineering"),
		profile(2, "Bob", "Sales"),
	}

	t.Run("successful export generation", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport(profiles)

		require.NoError(t, err)
		assert.NotNil(t, buffer)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Engineering", "Sales"}, f.GetSheetList())

		headerVal, err := f.GetCellValue("Sales", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Staff ID", headerVal)

		countryHeader, err := f.GetCellValue("Sales", "H1")
		require.NoError(t, err)
		assert.Equal(t, "Country", countryHeader)

		// rows are ordered by staff id within a sheet
		firstID, err := f.GetCellValue("Sales", "A2")
		require.NoError(t, err)
		assert.Equal(t, "2", firstID)

		secondName, err := f.GetCellValue("Sales", "B3")
		require.NoError(t, err)
		assert.Equal(t, "Carol", secondName)

		city, err := f.GetCellValue("Engineering", "E2")
		require.NoError(t, err)
		assert.Equal(t, "Metropolis", city)

		rows, err := f.GetRows("Engineering")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unsafe department names", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport([]models.Profile{
			profile(1, "Alice", "R&D / Labs"),
			profile(2, "Bob", "Sheet1"),
		})
		require.NoError(t, err)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.ElementsMatch(t, []string{"R&D _ Labs", "Sheet1"}, f.GetSheetList())

		name, err := f.GetCellValue("Sheet1", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Bob", name)
	})

	t.Run("colliding sheet names share a sheet", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport([]models.Profile{
			profile(1, "Alice", "Ops/IT"),
			profile(2, "Bob", "Ops:IT"),
		})
		require.NoError(t, err)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Ops_IT"}, f.GetSheetList())

		rows, err := f.GetRows("Ops_IT")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("department names differing in case share a sheet", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport([]models.Profile{
			profile(1, "Ann", "Sales"),
			profile(2, "Bob", "sales"),
			profile(3, "Cy", "SALES"),
		})
		require.NoError(t, err)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"Sales"}, f.GetSheetList())

		rows, err := f.GetRows("Sales")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Ann", rows[1][1])
		assert.Equal(t, "Bob", rows[2][1])
		assert.Equal(t, "Cy", rows[3][1])
	})

	t.Run("quoted department name", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport([]models.Profile{
			profile(1, "Ann", "'Ops'"),
		})
		require.NoError(t, err)

		f, err := excelize.OpenReader(buffer)
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, []string{"_Ops_"}, f.GetSheetList())

		name, err := f.GetCellValue("_Ops_", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Ann", name)
	})

	t.Run("error - no profiles", func(t *testing.T) {
		t.Parallel()

		buffer, err := report.GenerateDirectoryExport([]models.Profile{})

		require.Error(t, err)
		assert.Nil(t, buffer)
		require.ErrorIs(t, err, report.ErrNoProfiles)
	})
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Engineering", report.SheetName("Engineering"))
	assert.Equal(t, "a_b_c_d", report.SheetName("a:b?c*d"))
	assert.Equal(t, "_", report.SheetName(""))
	assert.Equal(t, "_Ops_", report.SheetName("'Ops'"))
	assert.Equal(t, "O'Neil", report.SheetName("O'Neil"))
	assert.Equal(t, "_", report.SheetName("'"))

	long := report.SheetName(strings.Repeat("x", 40))
	assert.Len(t, long, 31)
}
