// Package csvimport reads reference data such as the ingredient catalog
// from CSV files.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sniffSize is how much of the input is checked for valid UTF-8 up front
const sniffSize = 4096

// CSVParser reads a header (or uses fixed column names) and then rows keyed
// by column name. Fields are trimmed, including no-break spaces.
type CSVParser struct {
	delimiter    rune
	normalize    bool
	fixedHeaders bool
	headers      []string
	index        map[string]int
	line         int
	total        int
	reader       *csv.Reader
}

type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) { p.delimiter = d }
}

// WithHeaders names the columns of a file that has no header row.
// ParseHeader becomes a no-op and the first line is read as data.
func WithHeaders(names ...string) ParserOption {
	return func(p *CSVParser) {
		p.fixedHeaders = true
		p.setHeaders(names)
	}
}

// WithNFC normalizes every field to Unicode NFC, so that visually equal
// names typed with combining marks compare equal
func WithNFC() ParserOption {
	return func(p *CSVParser) { p.normalize = true }
}

// NewCSVParser drops a leading byte order mark (UTF-16 input with a BOM is
// decoded to UTF-8) and rejects empty input and input that is not UTF-8.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{delimiter: ',', index: map[string]int{}}
	for _, opt := range opts {
		opt(p)
	}

	br := bufio.NewReaderSize(transform.NewReader(r, unicode.BOMOverride(transform.Nop)), sniffSize)
	if err := checkUTF8(br); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(br)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

func checkUTF8(br *bufio.Reader) error {
	head, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return ErrEmptyFile
	}
	// A full window may end inside a multi-byte rune
	if len(head) == sniffSize {
		for i := len(head) - 1; i >= len(head)-utf8.UTFMax; i-- {
			if utf8.RuneStart(head[i]) {
				if !utf8.FullRune(head[i:]) {
					head = head[:i]
				}
				break
			}
		}
	}
	if !utf8.Valid(head) {
		return ErrInvalidEncoding
	}
	return nil
}

func (p *CSVParser) setHeaders(names []string) {
	p.headers = make([]string, len(names))
	p.index = make(map[string]int, len(names))
	for i, name := range names {
		name = p.clean(name)
		p.headers[i] = name
		p.index[name] = i
	}
}

// ParseHeader consumes the header row. It is a no-op with WithHeaders.
func (p *CSVParser) ParseHeader() error {
	if p.fixedHeaders {
		return nil
	}

	record, err := p.reader.Read()
	switch {
	case errors.Is(err, io.EOF):
		return ErrMissingHeader
	case err != nil:
		return fmt.Errorf("failed to read header: %w", err)
	case len(record) == 0:
		return ErrMissingHeader
	}
	p.setHeaders(record)
	p.line = 1
	return nil
}

func (p *CSVParser) Headers() []string { return p.headers }

func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.index[name]
	return ok
}

// ValidateHeaders returns the required headers that are missing
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, name := range required {
		if !p.HasHeader(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is one data line. Short lines are padded with empty values; Extra
// counts fields past the last known column.
type Row struct {
	LineNumber int
	Data       map[string]string
	Extra      int
}

func (r *Row) Get(header string) string {
	return r.Data[header]
}

func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns io.EOF after the last row
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.line, err)
	}
	p.total++

	row := &Row{LineNumber: p.line, Data: make(map[string]string, len(p.headers))}
	for i, name := range p.headers {
		var value string
		if i < len(record) {
			value = p.clean(record[i])
		}
		row.Data[name] = value
	}
	row.Extra = max(len(record)-len(p.headers), 0)
	return row, nil
}

// ReadAllRows reads the remaining rows, skipping rows whose fields are all
// blank
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if !row.IsEmpty() {
			rows = append(rows, row)
		}
	}
}

// TotalRows counts data rows read so far, blank ones included
func (p *CSVParser) TotalRows() int { return p.total }

func (p *CSVParser) clean(s string) string {
	s = strings.TrimFunc(s, isSpace)
	if p.normalize {
		s = norm.NFC.String(s)
	}
	return s
}

// isSpace matches ASCII whitespace and the no-break space that spreadsheet
// exports leave around values
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0':
		return true
	}
	return false
}
