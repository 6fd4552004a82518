package gridbeat

import "errors"

type (
	// Cell is one grid address. SampleSlot -1 means the cell is empty; an
	// empty cell ignores its overrides. Volume and Pitch override the slot
	// defaults when >= 0; negative values mean "inherit from the slot".
	Cell struct {
		SampleSlot int     `yaml:"slot" json:"slot"`
		Volume     float32 `yaml:"volume" json:"volume"`
		Pitch      float32 `yaml:"pitch" json:"pitch"`
	}

	// Section is a contiguous run of steps with its own loop count. Sections
	// partition the step axis contiguously and in order; StartStep is
	// derived from the preceding sections' step counts but stored so the
	// snapshot format stays self-describing.
	Section struct {
		StartStep int `yaml:"startStep" json:"startStep"`
		NumSteps  int `yaml:"numSteps" json:"numSteps"`
		Loops     int `yaml:"loops" json:"loops"`
	}

	// Layer is a contiguous run of columns, shown as a header group in the
	// UI. Layer lengths sum to the table's column count.
	Layer struct {
		Cols int `yaml:"cols" json:"cols"`
	}

	// Table is the grid: a dense cell matrix owned row-major, the ordered
	// section list and the ordered layer list. Every cell address is covered
	// by exactly one section and one layer. A table always has at least one
	// section and one layer.
	Table struct {
		Cells    [][]Cell  `yaml:"cells,flow" json:"cells"`
		Sections []Section `yaml:"sections" json:"sections"`
		Layers   []Layer   `yaml:"layers,flow" json:"layers"`
	}

	// SectionClip is a copied section with its cell contents, used by the
	// section clipboard. Pasting remaps cells by relative row and absolute
	// column index, clipped to the destination extent.
	SectionClip struct {
		Section Section
		Cells   [][]Cell
	}
)

// EmptyCell is the zero state of a grid address: no sample, overrides
// inheriting the slot defaults.
var EmptyCell = Cell{SampleSlot: -1, Volume: -1, Pitch: -1}

var (
	ErrLastSection    = errors.New("cannot delete the last remaining section")
	ErrLastLayer      = errors.New("cannot remove the last remaining layer")
	ErrTableFull      = errors.New("table limits exceeded")
	ErrAddressInvalid = errors.New("step or column out of range")
)

// NewTable returns a table with one default-sized section and one layer.
func NewTable() Table {
	t := Table{
		Sections: []Section{{StartStep: 0, NumSteps: DefaultSectionSteps, Loops: DefaultSectionLoops}},
		Layers:   []Layer{{Cols: DefaultLayerCols}},
	}
	t.Cells = makeCells(DefaultSectionSteps, DefaultLayerCols)
	return t
}

func makeCells(steps, cols int) [][]Cell {
	cells := make([][]Cell, steps)
	for i := range cells {
		cells[i] = makeRow(cols)
	}
	return cells
}

func makeRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = EmptyCell
	}
	return row
}

// Copy makes a deep copy of the table.
func (t Table) Copy() Table {
	cells := make([][]Cell, len(t.Cells))
	for i, row := range t.Cells {
		cells[i] = make([]Cell, len(row))
		copy(cells[i], row)
	}
	sections := make([]Section, len(t.Sections))
	copy(sections, t.Sections)
	layers := make([]Layer, len(t.Layers))
	copy(layers, t.Layers)
	return Table{Cells: cells, Sections: sections, Layers: layers}
}

// Steps returns the total number of steps, summed over the sections.
func (t Table) Steps() int {
	ret := 0
	for _, s := range t.Sections {
		ret += s.NumSteps
	}
	return ret
}

// Cols returns the total number of columns, summed over the layers.
func (t Table) Cols() int {
	ret := 0
	for _, l := range t.Layers {
		ret += l.Cols
	}
	return ret
}

// InRange reports whether (step, col) addresses a cell of the table.
func (t Table) InRange(step, col int) bool {
	return step >= 0 && step < len(t.Cells) && col >= 0 && col < t.Cols()
}

// Cell returns the cell at (step, col), or EmptyCell if the address is out of
// range.
func (t Table) Cell(step, col int) Cell {
	if !t.InRange(step, col) {
		return EmptyCell
	}
	return t.Cells[step][col]
}

// SetCell overwrites the cell at (step, col). Out-of-range addresses are
// rejected.
func (t *Table) SetCell(step, col int, c Cell) error {
	if !t.InRange(step, col) {
		return ErrAddressInvalid
	}
	t.Cells[step][col] = c
	return nil
}

// SectionAt returns the index of the section covering the step, or -1.
func (t Table) SectionAt(step int) int {
	for i, s := range t.Sections {
		if step >= s.StartStep && step < s.StartStep+s.NumSteps {
			return i
		}
	}
	return -1
}

// LayerAt returns the index of the layer covering the column, or -1.
func (t Table) LayerAt(col int) int {
	start := 0
	for i, l := range t.Layers {
		if col >= start && col < start+l.Cols {
			return i
		}
		start += l.Cols
	}
	return -1
}

// relabelSections recomputes every section's StartStep from the section
// order, keeping the derived field consistent after structural edits.
func (t *Table) relabelSections() {
	start := 0
	for i := range t.Sections {
		t.Sections[i].StartStep = start
		start += t.Sections[i].NumSteps
	}
}

// InsertSection inserts a new section with the given number of steps after
// the section at index; index -1 inserts at the front. The new section's
// cells start empty.
func (t *Table) InsertSection(index, steps int) error {
	if steps < 1 {
		steps = DefaultSectionSteps
	}
	if index < -1 || index >= len(t.Sections) {
		return ErrAddressInvalid
	}
	if len(t.Sections) >= MaxSections || t.Steps()+steps > MaxSteps {
		return ErrTableFull
	}
	at := 0
	if index >= 0 {
		at = t.Sections[index].StartStep + t.Sections[index].NumSteps
	}
	rows := make([][]Cell, steps)
	for i := range rows {
		rows[i] = makeRow(t.Cols())
	}
	t.Cells = append(t.Cells[:at], append(rows, t.Cells[at:]...)...)
	newSection := Section{NumSteps: steps, Loops: DefaultSectionLoops}
	t.Sections = append(t.Sections[:index+1], append([]Section{newSection}, t.Sections[index+1:]...)...)
	t.relabelSections()
	return nil
}

// AppendSection adds a section at the end. If copyFrom addresses an existing
// section, the new section copies its cell contents row by row, clipped to
// the requested step count.
func (t *Table) AppendSection(steps, copyFrom int) error {
	if err := t.InsertSection(len(t.Sections)-1, steps); err != nil {
		return err
	}
	if copyFrom < 0 || copyFrom >= len(t.Sections)-1 {
		return nil
	}
	src := t.Sections[copyFrom]
	dst := t.Sections[len(t.Sections)-1]
	for r := 0; r < dst.NumSteps && r < src.NumSteps; r++ {
		copy(t.Cells[dst.StartStep+r], t.Cells[src.StartStep+r])
	}
	return nil
}

// DeleteSection removes the section at index, shifting subsequent sections
// down. Deleting the last remaining section is rejected.
func (t *Table) DeleteSection(index int) error {
	if index < 0 || index >= len(t.Sections) {
		return ErrAddressInvalid
	}
	if len(t.Sections) <= 1 {
		return ErrLastSection
	}
	s := t.Sections[index]
	t.Cells = append(t.Cells[:s.StartStep], t.Cells[s.StartStep+s.NumSteps:]...)
	t.Sections = append(t.Sections[:index], t.Sections[index+1:]...)
	t.relabelSections()
	return nil
}

// SetSectionSteps resizes a section, preserving cell contents for the steps
// that remain and filling grown steps with empty cells.
func (t *Table) SetSectionSteps(index, steps int) error {
	if index < 0 || index >= len(t.Sections) {
		return ErrAddressInvalid
	}
	if steps < 1 {
		return ErrAddressInvalid
	}
	old := t.Sections[index].NumSteps
	if steps == old {
		return nil
	}
	if t.Steps()-old+steps > MaxSteps {
		return ErrTableFull
	}
	end := t.Sections[index].StartStep + old
	if steps > old {
		rows := make([][]Cell, steps-old)
		for i := range rows {
			rows[i] = makeRow(t.Cols())
		}
		t.Cells = append(t.Cells[:end], append(rows, t.Cells[end:]...)...)
	} else {
		t.Cells = append(t.Cells[:end-(old-steps)], t.Cells[end:]...)
	}
	t.Sections[index].NumSteps = steps
	t.relabelSections()
	return nil
}

// InsertStep inserts an empty step inside a section at the given offset from
// the section start, growing the section by one.
func (t *Table) InsertStep(section, atStep int) error {
	if section < 0 || section >= len(t.Sections) {
		return ErrAddressInvalid
	}
	s := t.Sections[section]
	if atStep < 0 || atStep > s.NumSteps {
		return ErrAddressInvalid
	}
	if t.Steps()+1 > MaxSteps {
		return ErrTableFull
	}
	at := s.StartStep + atStep
	t.Cells = append(t.Cells[:at], append([][]Cell{makeRow(t.Cols())}, t.Cells[at:]...)...)
	t.Sections[section].NumSteps++
	t.relabelSections()
	return nil
}

// DeleteStep removes one step from a section. A section keeps at least one
// step; shrinking it away entirely is the job of DeleteSection.
func (t *Table) DeleteStep(section, atStep int) error {
	if section < 0 || section >= len(t.Sections) {
		return ErrAddressInvalid
	}
	s := t.Sections[section]
	if atStep < 0 || atStep >= s.NumSteps || s.NumSteps <= 1 {
		return ErrAddressInvalid
	}
	at := s.StartStep + atStep
	t.Cells = append(t.Cells[:at], t.Cells[at+1:]...)
	t.Sections[section].NumSteps--
	t.relabelSections()
	return nil
}

// CopySection returns a deep copy of the section and its cells for the
// section clipboard.
func (t Table) CopySection(index int) (SectionClip, bool) {
	if index < 0 || index >= len(t.Sections) {
		return SectionClip{}, false
	}
	s := t.Sections[index]
	cells := make([][]Cell, s.NumSteps)
	for r := 0; r < s.NumSteps; r++ {
		cells[r] = make([]Cell, len(t.Cells[s.StartStep+r]))
		copy(cells[r], t.Cells[s.StartStep+r])
	}
	return SectionClip{Section: s, Cells: cells}, true
}

// PasteSection overwrites the destination section's cells with the clip,
// remapped by relative row and absolute column index. Overlapping addresses
// are filled; destination cells outside the clip extent are left untouched.
// The destination keeps its own step count and loop count.
func (t *Table) PasteSection(index int, clip SectionClip) error {
	if index < 0 || index >= len(t.Sections) {
		return ErrAddressInvalid
	}
	dst := t.Sections[index]
	for r := 0; r < dst.NumSteps && r < len(clip.Cells); r++ {
		row := t.Cells[dst.StartStep+r]
		for c := 0; c < len(row) && c < len(clip.Cells[r]); c++ {
			row[c] = clip.Cells[r][c]
		}
	}
	return nil
}

// AddLayer appends a layer of the default width, growing every row with
// empty cells.
func (t *Table) AddLayer() error {
	if len(t.Layers) >= MaxLayers || t.Cols()+DefaultLayerCols > MaxCols {
		return ErrTableFull
	}
	t.Layers = append(t.Layers, Layer{Cols: DefaultLayerCols})
	for i := range t.Cells {
		t.Cells[i] = append(t.Cells[i], makeRow(DefaultLayerCols)...)
	}
	return nil
}

// RemoveLayer removes the last layer and its columns. The last remaining
// layer cannot be removed.
func (t *Table) RemoveLayer() error {
	if len(t.Layers) <= 1 {
		return ErrLastLayer
	}
	t.Layers = t.Layers[:len(t.Layers)-1]
	keep := t.Cols()
	for i := range t.Cells {
		t.Cells[i] = t.Cells[i][:keep]
	}
	return nil
}
