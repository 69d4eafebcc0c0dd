package tidy

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// Columns lists the table columns in export order.
var Columns = []string{
	"name", "x", "y", "to", "xend", "yend", "direction", "label", "role",
	"adjusted", "set", "status", "collider", "activated",
}

// Record returns the row's cells in [Columns] order. Missing values are
// empty strings.
func (r Row) Record() []string {
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	opt := func(f *float64) string {
		if f == nil {
			return ""
		}
		return num(*f)
	}
	flag := func(b bool) string {
		if b {
			return "true"
		}
		return ""
	}
	return []string{
		r.Name, num(r.X), num(r.Y), r.Target(), opt(r.XEnd), opt(r.YEnd),
		r.Direction, r.Label, r.Role, r.Adjusted, r.Set, r.Status,
		flag(r.Collider), flag(r.Activated),
	}
}

// WriteJSON writes the rows as an indented JSON array.
func WriteJSON(w io.Writer, t *Table) error {
	rows := t.rows
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes a header line followed by one record per row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
