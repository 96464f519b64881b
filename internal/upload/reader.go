package upload

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

const (
	// MsgNoFile is returned when the multipart request carries no file part.
	MsgNoFile = "No file uploaded."
	// MsgUnparsable is returned when the workbook cannot be opened or is empty.
	MsgUnparsable = "Failed to parse uploaded file."
)

// Reader turns an uploaded workbook into a typed payload: classified,
// header-normalized rows for tabular sheets, or a day/room calendar for
// venue availability sheets.
type Reader struct {
	thresholds  Thresholds
	headerDepth int
}

// NewReader builds a Reader from the app config.
func NewReader(cfg *config.Config) *Reader {
	depth := cfg.Upload.HeaderSearchDepth
	if depth <= 0 {
		depth = 5
	}
	return &Reader{
		thresholds:  ThresholdsFromConfig(cfg.Classifier),
		headerDepth: depth,
	}
}

// Parse reads the first sheet of the workbook. School exports are messy:
// headers are rarely on the first row and the rows above them carry stray
// context like the owning school, so header detection is a scored search
// rather than a fixed offset.
func (r *Reader) Parse(data []byte, filename string) *ParsedPayload {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return errorPayload(filename, MsgUnparsable)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return errorPayload(filename, MsgUnparsable)
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil || len(raw) == 0 {
		return errorPayload(filename, MsgUnparsable)
	}
	grid := toGrid(raw)

	if payload, ok := r.parseTabular(grid, filename); ok {
		return payload
	}
	if r.thresholds.IsVenue(grid) {
		return r.parseVenueGrid(f, sheet, grid, filename)
	}

	// Neither shape matched; hand back the best-effort tabular view so the
	// caller can report what it saw.
	headerIdx, columns := r.chooseHeader(grid)
	return &ParsedPayload{
		Status:  "ok",
		Type:    FileTypeUnknown,
		File:    filename,
		Columns: columns,
		Rows:    r.collectRows(grid, headerIdx, columns),
	}
}

// toGrid converts excelize's ragged string rows into a rectangular grid of
// untyped cells, which keeps the coercers' contract uniform.
func toGrid(raw [][]string) [][]interface{} {
	width := 0
	for _, row := range raw {
		if len(row) > width {
			width = len(row)
		}
	}
	grid := make([][]interface{}, len(raw))
	for i, row := range raw {
		cells := make([]interface{}, width)
		for j := 0; j < width; j++ {
			if j < len(row) {
				cells[j] = row[j]
			} else {
				cells[j] = ""
			}
		}
		grid[i] = cells
	}
	return grid
}

// headerScore rates a candidate header row by how many known exam and
// provision columns it resolves to.
func headerScore(columns []string) int {
	return countHits(columns, examIndicators) + countHits(columns, provisionIndicators)
}

func normalizeRow(cells []interface{}) []string {
	columns := make([]string, len(cells))
	for i, cell := range cells {
		text := CleanString(cell, 0)
		if text == "" {
			columns[i] = ""
			continue
		}
		columns[i] = NormalizeHeader(text)
	}
	return columns
}

func unnamedRatio(columns []string) float64 {
	if len(columns) == 0 {
		return 1
	}
	empty := 0
	for _, c := range columns {
		if c == "" {
			empty++
		}
	}
	return float64(empty) / float64(len(columns))
}

// chooseHeader picks the header row. The first row wins unless it neither
// looks like an exam sheet nor a provisions sheet, or too many of its cells
// are unnamed; then the leading rows are auditioned and the best scorer kept.
func (r *Reader) chooseHeader(grid [][]interface{}) (int, []string) {
	first := normalizeRow(grid[0])
	firstLooksRight := countHits(first, examIndicators) >= r.thresholds.ExamColumnHits ||
		countHits(first, provisionIndicators) >= r.thresholds.ProvisionColumnHits
	if firstLooksRight && unnamedRatio(first) < r.thresholds.UnnamedHeaderRatio {
		return 0, first
	}

	bestIdx, bestColumns, bestScore := 0, first, headerScore(first)
	depth := r.headerDepth
	if depth >= len(grid) {
		depth = len(grid) - 1
	}
	for i := 1; i <= depth; i++ {
		candidate := normalizeRow(grid[i])
		if score := headerScore(candidate); score > bestScore {
			bestIdx, bestColumns, bestScore = i, candidate, score
		}
	}
	return bestIdx, bestColumns
}

// implicitSchool scans the rows above the chosen header for a school name
// left there as a title cell.
func implicitSchool(grid [][]interface{}, headerIdx int) string {
	for i := 0; i < headerIdx; i++ {
		for _, cell := range grid[i] {
			if text := CleanString(cell, 0); text != "" {
				return text
			}
		}
	}
	return ""
}

// collectRows materializes the data rows under the header, dropping fully
// empty rows and cells under unnamed columns.
func (r *Reader) collectRows(grid [][]interface{}, headerIdx int, columns []string) []Row {
	school := implicitSchool(grid, headerIdx)
	rows := make([]Row, 0, len(grid)-headerIdx-1)
	for _, cells := range grid[headerIdx+1:] {
		row := Row{}
		empty := true
		for j, name := range columns {
			if name == "" || j >= len(cells) {
				continue
			}
			row[name] = cells[j]
			if !IsMissing(cells[j]) {
				empty = false
			}
		}
		if empty {
			continue
		}
		if school != "" {
			if _, has := row["school"]; !has || IsMissing(row["school"]) {
				row["school"] = school
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// parseTabular attempts the exam/provisions shapes; ok is false when the
// sheet matches neither so venue detection can run.
func (r *Reader) parseTabular(grid [][]interface{}, filename string) (*ParsedPayload, bool) {
	headerIdx, columns := r.chooseHeader(grid)

	var fileType FileType
	var required string
	switch {
	case r.thresholds.IsProvision(columns):
		fileType, required = FileTypeProvisions, "student_id"
	case r.thresholds.IsExam(columns):
		fileType, required = FileTypeExam, "exam_code"
	default:
		return nil, false
	}

	if !containsColumn(columns, required) {
		return errorPayload(filename, "Missing required columns: "+required), true
	}

	named := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != "" {
			named = append(named, c)
		}
	}
	return &ParsedPayload{
		Status:  "ok",
		Type:    fileType,
		File:    filename,
		Columns: named,
		Rows:    r.collectRows(grid, headerIdx, columns),
	}, true
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// parseVenueGrid reads a venue availability calendar: weekday names on the
// first row, dates on the second, and room names stacked below each date.
// A room written in red is flagged inaccessible.
func (r *Reader) parseVenueGrid(f *excelize.File, sheet string, grid [][]interface{}, filename string) *ParsedPayload {
	days := make([]Day, 0)
	for col := 0; col < len(grid[0]); col++ {
		if !isWeekday(grid[0][col]) {
			continue
		}
		date, ok := CoerceDate(grid[1][col])
		if !ok {
			continue
		}
		day := Day{
			Day:  CleanString(grid[0][col], 0),
			Date: date.Format("2006-01-02"),
		}
		for rowIdx := 2; rowIdx < len(grid); rowIdx++ {
			name := CleanString(grid[rowIdx][col], 0)
			if name == "" {
				continue
			}
			room := Room{Name: name}
			if isRedFont(f, sheet, col, rowIdx) {
				accessible := false
				room.Accessible = &accessible
			}
			day.Rooms = append(day.Rooms, room)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return errorPayload(filename, MsgUnparsable)
	}
	return &ParsedPayload{
		Status: "ok",
		Type:   FileTypeVenue,
		File:   filename,
		Days:   days,
	}
}

// isRedFont reports whether the cell's font color is pure red. Style colors
// come back as ARGB, so only the trailing RGB digits are compared.
func isRedFont(f *excelize.File, sheet string, col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return false
	}
	color := strings.ToUpper(strings.TrimPrefix(style.Font.Color, "#"))
	return len(color) >= 6 && color[len(color)-6:] == "FF0000"
}
