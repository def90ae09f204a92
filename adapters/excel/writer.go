package excel

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"causalprep/domain/table"
	"causalprep/internal/errors"
)

// WriteCSV persists a table snapshot as csv. Missing entries are written as
// empty cells, so a round trip through ReadTable preserves them.
func WriteCSV(tbl *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := tbl.Names()
	if err := w.Write(names); err != nil {
		return errors.Wrap(err, "writing header row")
	}

	rows := tbl.Rows()
	record := make([]string, len(names))
	for i := 0; i < rows; i++ {
		for j, name := range names {
			col, _ := tbl.Column(name)
			record[j] = formatCell(col, i)
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "writing row %d", i)
		}
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flushing csv")
}

func formatCell(col table.Column, i int) string {
	if col.IsMissing(i) {
		return ""
	}
	if col.Kind() == table.Categorical {
		return col.String(i)
	}
	v := col.Float(i)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
