// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"

	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/agebooks/pkg/types"
)

// XLSXFile reads records from one worksheet of a workbook. An empty Sheet
// selects the first worksheet.
type XLSXFile struct {
	Path    string
	Sheet   string
	Columns types.Columns
}

// FetchRows reads every row of the worksheet.
func (x *XLSXFile) FetchRows(ctx context.Context) ([]types.Record, error) {
	f, err := xlsx.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", x.Path, err)
	}

	sheet, err := x.sheet(f)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	zap.L().Debug("read workbook",
		zap.String("path", x.Path),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", len(rows)),
	)
	return rowsToRecords(rows, x.Columns), nil
}

func (x *XLSXFile) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if x.Sheet != "" {
		s, ok := f.Sheet[x.Sheet]
		if !ok {
			return nil, fmt.Errorf("sheet %q not found in %s", x.Sheet, x.Path)
		}
		return s, nil
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", x.Path)
	}
	return f.Sheets[0], nil
}
