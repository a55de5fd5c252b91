package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/arvandi/propflow/cgraph"
)

// readMark is placed at a variable's row in a method's column when the
// method reads that variable (mirrors matrix's srcMark convention).
const readMark = -1.0

// writeMark is placed at a variable's row in a method's column when the
// method writes that variable (mirrors matrix's dstMark convention).
const writeMark = +1.0

// readWriteMark is placed when a method both reads and writes the same
// variable (mirrors matrix's directed self-loop cancellation being skipped
// here instead: a method reading and writing the same variable is legal in
// cgraph, unlike a graph self-loop, so both marks are summed rather than
// dropped).
const readWriteMark = readMark + writeMark

// Matrix is a dense variables×methods incidence matrix: Mat[i][j] is
// readMark, writeMark, readWriteMark, or 0 according to whether method j
// reads and/or writes variable i.
type Matrix struct {
	Mat          [][]float64
	VariableRow  map[string]int
	MethodColumn map[string]int
	Variables    []string // row labels, aligned to Mat's rows
	Methods      []string // column labels, aligned to Mat's columns
}

// Incidence builds a Matrix snapshot of cg: one row per variable (sorted by
// id for determinism), one column per method (sorted by id), entries per
// InputsFor/OutputsFor.
func Incidence(cg *cgraph.Graph) *Matrix {
	vars := append([]string(nil), cg.Variables()...)
	sort.Strings(vars)
	methods := append([]string(nil), cg.Methods()...)
	sort.Strings(methods)

	varRow := make(map[string]int, len(vars))
	for i, vid := range vars {
		varRow[vid] = i
	}
	methodCol := make(map[string]int, len(methods))
	for j, mid := range methods {
		methodCol[mid] = j
	}

	mat := make([][]float64, len(vars))
	for i := range mat {
		mat[i] = make([]float64, len(methods))
	}

	for j, mid := range methods {
		for _, in := range cg.InputsFor(mid) {
			if i, ok := varRow[in.Variable]; ok {
				mat[i][j] += readMark
			}
		}
		for _, out := range cg.OutputsFor(mid) {
			if i, ok := varRow[out]; ok {
				mat[i][j] += writeMark
			}
		}
	}

	return &Matrix{
		Mat:          mat,
		VariableRow:  varRow,
		MethodColumn: methodCol,
		Variables:    vars,
		Methods:      methods,
	}
}

// At returns the incidence entry for (vid, mid), or 0 if either is unknown.
func (m *Matrix) At(vid, mid string) float64 {
	i, ok := m.VariableRow[vid]
	if !ok {
		return 0
	}
	j, ok := m.MethodColumn[mid]
	if !ok {
		return 0
	}
	return m.Mat[i][j]
}

// String renders the matrix as a simple aligned table for terminal display.
// Columns use go-runewidth so labels containing wide (e.g. CJK) runes still
// line up, which fmt's byte-counting %-Ns verb does not guarantee.
func (m *Matrix) String() string {
	const rowLabelWidth = 16
	const colWidth = 8

	var b strings.Builder
	b.WriteString(runewidth.FillRight("", rowLabelWidth))
	for _, mid := range m.Methods {
		b.WriteString(runewidth.FillLeft(runewidth.Truncate(mid, colWidth, "…"), colWidth))
	}
	b.WriteByte('\n')
	for i, vid := range m.Variables {
		b.WriteString(runewidth.FillRight(runewidth.Truncate(vid, rowLabelWidth, "…"), rowLabelWidth))
		for j := range m.Methods {
			b.WriteString(runewidth.FillLeft(fmt.Sprintf("%.0f", m.Mat[i][j]), colWidth))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
