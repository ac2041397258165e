package weather

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// FileReader is a cyclic CSV weather-file reader: lines prefixed '#'
// before the header are comments, the header's '*'-prefixed tokens mark
// key fields, and records are read back cyclically in fixed-size year
// blocks once the last record is exhausted.
type FileReader struct {
	NSets int

	header    []string
	keyFields map[string]bool
	rows      [][]float64

	year    int
	cached  *Annual
	nextRow int
}

// NewFileReader constructs a reader for the given block size (records per
// year). It does not read the file; call Load or LoadReader to do that.
func NewFileReader(nsets int) *FileReader {
	return &FileReader{NSets: nsets, keyFields: make(map[string]bool)}
}

// Load reads and parses the weather file at path.
func (f *FileReader) Load(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return simerr.NewInput("opening weather file", err)
	}
	defer fh.Close()
	return f.LoadReader(fh)
}

// LoadReader parses weather records from r the way Load does from a file:
// '#'-prefixed prelude lines are skipped, the first remaining line is the
// header (',' or ';' delimited; '*'-prefixed tokens are key fields), and
// every subsequent non-blank line is a data record.
func (f *FileReader) LoadReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var delim byte
	f.header = nil
	f.keyFields = make(map[string]bool)
	f.rows = nil

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if f.header == nil {
			delim = delimiterOf(line)
			tokens := strings.Split(line, string(delim))
			f.header = make([]string, len(tokens))
			for i, h := range tokens {
				h = strings.TrimSpace(h)
				if strings.HasPrefix(h, "*") {
					h = strings.TrimPrefix(h, "*")
					f.keyFields[h] = true
				}
				f.header[i] = h
			}
			continue
		}
		tokens := strings.Split(line, string(delim))
		if len(tokens) != len(f.header) {
			return simerr.NewInput(fmt.Sprintf("weather record has %d fields, header has %d", len(tokens), len(f.header)), nil)
		}
		row := make([]float64, len(tokens))
		for i, v := range tokens {
			fv, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return simerr.NewInput(fmt.Sprintf("parsing weather value %q", v), err)
			}
			row[i] = fv
		}
		f.rows = append(f.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return simerr.NewInput("reading weather file", err)
	}
	if f.header == nil {
		return simerr.NewInput("weather file has no header line", nil)
	}
	if f.NSets <= 0 {
		f.NSets = 365
	}
	if len(f.rows)%f.NSets != 0 {
		return simerr.NewInput(fmt.Sprintf("weather file has %d records, not a multiple of nsets=%d", len(f.rows), f.NSets), nil)
	}
	f.year = 0
	f.cached = nil
	f.nextRow = 0
	return nil
}

func delimiterOf(headerLine string) byte {
	if strings.Contains(headerLine, ";") {
		return ';'
	}
	return ','
}

// NumYears reports how many nsets-sized blocks are loaded.
func (f *FileReader) NumYears() int {
	if f.NSets == 0 {
		return 0
	}
	return len(f.rows) / f.NSets
}

// Update populates and returns the Annual table for the given 1-based
// year. year <= 0 advances to the next block, cyclically wrapping after
// the last, and also resets the day-by-day NextDay cursor.
func (f *FileReader) Update(year int) (*Annual, error) {
	n := f.NumYears()
	if n == 0 {
		return nil, simerr.NewInput("weather file has no loaded records", nil)
	}
	var block int
	if year <= 0 {
		block = f.year
		f.year = (f.year + 1) % n
	} else {
		block = (year - 1) % n
	}
	ann := NewAnnual(f.NSets, keyFieldSlice(f.keyFields))
	start := block * f.NSets
	for i := 0; i < f.NSets; i++ {
		row := f.rows[start+i]
		rec := make(Record, len(f.header))
		for j, h := range f.header {
			rec[h] = row[j]
		}
		if err := ann.Set(i+1, rec); err != nil {
			return nil, err
		}
	}
	f.cached = ann
	f.nextRow = 0
	return ann, nil
}

func keyFieldSlice(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// NextDay returns the next day's record, advancing to the following
// annual block (cyclically) once the current block is exhausted.
func (f *FileReader) NextDay() (Record, error) {
	if f.NumYears() == 0 {
		return nil, simerr.NewInput("weather file has no loaded records", nil)
	}
	if f.cached == nil || f.nextRow >= f.NSets {
		if _, err := f.Update(0); err != nil {
			return nil, err
		}
	}
	rec, err := f.cached.Get(f.nextRow + 1)
	if err != nil {
		return nil, err
	}
	f.nextRow++
	return rec, nil
}
