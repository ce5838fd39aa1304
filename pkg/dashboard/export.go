package dashboard

import (
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Export file names.
const (
	CSVFileName  = "filtered_data.csv"
	XLSXFileName = "filtered_data.xlsx"
	sheetName    = "Sheet1"
)

// WriteCSV writes df with a header row.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	return errors.Wrap(df.WriteCSV(w), "write csv")
}

// WriteXLSX writes df as a single-sheet workbook, header in the first row.
// Missing cells are left empty.
func WriteXLSX(w io.Writer, df dataframe.DataFrame) error {
	f := excelize.NewFile()
	defer f.Close()

	names := df.Names()
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.Wrap(err, "xlsx header")
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return errors.Wrap(err, "xlsx header")
		}
	}
	for row := 0; row < df.Nrow(); row++ {
		for col, name := range names {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return errors.Wrap(err, "xlsx cell")
			}
			if err := f.SetCellValue(sheetName, cell, df.Col(name).Val(row)); err != nil {
				return errors.Wrap(err, "xlsx cell")
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}
