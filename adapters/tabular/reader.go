package tabular

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorcr/domain/core"
	"gorcr/internal"

	"github.com/xuri/excelize/v2"
)

// FileType identifies the on-disk layout of a table
type FileType string

const (
	FileTypeTSV  FileType = "tsv"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType picks the layout from the extension; anything unknown is read as TSV
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FileTypeCSV
	case ".xlsx":
		return FileTypeXLSX
	default:
		return FileTypeTSV
	}
}

// Record is one raw row with its 1-based line (or sheet row) number
type Record struct {
	Line   int
	Fields []string
}

// RawRowData represents a row keyed by trimmed header
type RawRowData map[string]string

// Data is a headed table
type Data struct {
	Headers []string
	Rows    []RawRowData
	Lines   []int
}

// HasColumn reports whether a header is present
func (d *Data) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// DataReader reads TSV, CSV and Excel files
type DataReader struct {
	filePath string
	fileType FileType
	logger   *internal.Logger
}

// NewDataReader creates a reader whose layout is detected from the file extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{filePath: filePath, fileType: DetectFileType(filePath), logger: logger}
}

// FileType returns the detected layout
func (r *DataReader) FileType() FileType {
	return r.fileType
}

// ReadRecords returns every non-empty row, header included
func (r *DataReader) ReadRecords() ([]Record, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, core.NewDataError(r.filePath, 0, "file not found")
		}
		return nil, fmt.Errorf("failed to stat %s: %w", r.filePath, err)
	}

	start := time.Now()
	var (
		records []Record
		err     error
	)
	switch r.fileType {
	case FileTypeXLSX:
		records, err = r.readExcel()
	case FileTypeCSV:
		records, err = r.readDelimited(',')
	default:
		records, err = r.readDelimited('\t')
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] %s file %s read in %.2fms (%d rows)",
		strings.ToUpper(string(r.fileType)), r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(records))
	return records, nil
}

// ReadData reads a table whose first row is the header
func (r *DataReader) ReadData() (*Data, error) {
	records, err := r.ReadRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, core.NewDataError(r.filePath, 0, "file is empty")
	}
	return processRows(records), nil
}

func (r *DataReader) readExcel() ([]Record, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewDataError(r.filePath, 0, fmt.Sprintf("failed to open Excel file: %v", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewDataError(r.filePath, 0, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewDataError(r.filePath, 0, fmt.Sprintf("failed to read sheet %s: %v", sheets[0], err))
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		records = append(records, Record{Line: i + 1, Fields: row})
	}
	return records, nil
}

func (r *DataReader) readDelimited(comma rune) ([]Record, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []Record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				return nil, core.NewDataError(r.filePath, perr.Line, perr.Err.Error())
			}
			return nil, core.NewDataError(r.filePath, 0, err.Error())
		}
		if isBlank(fields) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, Record{Line: line, Fields: fields})
	}
	return records, nil
}

// processRows converts raw records into header-keyed rows
func processRows(records []Record) *Data {
	headerRow := records[0].Fields
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	data := &Data{Headers: headers}
	for _, rec := range records[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range rec.Fields {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		data.Rows = append(data.Rows, rowData)
		data.Lines = append(data.Lines, rec.Line)
	}
	return data
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
