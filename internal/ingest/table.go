package ingest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Table is a raw tabular dataset: a header row followed by data rows, every row
// padded to the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Header)
}

// Cell returns the content at row i, column j, or "" outside the table.
func (t *Table) Cell(i, j int) string {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// Digest identifies the exact content of the table combined with salt, which
// callers use for the column configuration and scoring model in effect.
// Every cell is length-framed so that cell boundaries cannot collide.
func (t *Table) Digest(salt string) string {
	h := sha256.New()
	var buf [8]byte

	write := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	write(salt)
	binary.BigEndian.PutUint64(buf[:], uint64(len(t.Header)))
	h.Write(buf[:])
	for _, c := range t.Header {
		write(c)
	}
	binary.BigEndian.PutUint64(buf[:], uint64(len(t.Rows)))
	h.Write(buf[:])
	for _, row := range t.Rows {
		for _, c := range row {
			write(c)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// newTable turns ragged rows into a Table. The first row is the header and the
// widest row decides the column count.
func newTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	padded := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		copy(row, r)
		padded[i] = row
	}

	return &Table{
		Header: padded[0],
		Rows:   padded[1:],
	}
}
