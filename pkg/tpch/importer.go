package tpch

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// number of '|' separated fields in a lineitem.tbl line (the dbgen format
// also emits a trailing separator)
const lineItemFieldCount = 16

// Importer reads the '|' separated lineitem.tbl dataset one record at a
// time. It is owned by a single goroutine, the insert worker.
type Importer struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
}

func NewImporter(path string) (*Importer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open lineitem file")
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Importer{file: f, scanner: scanner}, nil
}

// NextLine parses the next record into item and returns its order key.
// An order key of 0 signals end of input. dbgen never emits order key 0,
// so the sentinel cannot collide with real data.
func (imp *Importer) NextLine(item *LineItem) (int64, error) {
	if !imp.scanner.Scan() {
		if err := imp.scanner.Err(); err != nil {
			return 0, errors.Wrap(err, "failed to read lineitem file")
		}
		return 0, nil
	}
	imp.line++
	if err := parseLineItem(imp.scanner.Text(), item); err != nil {
		return 0, errors.Wrapf(err, "line %d", imp.line)
	}
	return item.OrderKey, nil
}

func (imp *Importer) Close() error {
	return imp.file.Close()
}

func parseLineItem(line string, item *LineItem) error {
	fields := strings.Split(strings.TrimSuffix(line, "|"), "|")
	if len(fields) != lineItemFieldCount {
		return errors.Errorf("expected %d fields, got %d", lineItemFieldCount, len(fields))
	}

	var err error
	nextInt := func(i int) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			err = errors.Wrapf(err, "field %d", i+1)
		}
		return v
	}
	nextFloat := func(i int) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			err = errors.Wrapf(err, "field %d", i+1)
		}
		return v
	}

	item.OrderKey = nextInt(0)
	item.PartKey = nextInt(1)
	item.SuppKey = nextInt(2)
	item.LineNumber = nextInt(3)
	// dbgen emits quantity as a decimal but the value is always integral
	item.Quantity = int64(nextFloat(4))
	item.ExtendedPrice = nextFloat(5)
	item.Discount = nextFloat(6)
	item.Tax = nextFloat(7)
	item.ReturnFlag = fields[8]
	item.LineStatus = fields[9]
	item.ShipDate = fields[10]
	item.CommitDate = fields[11]
	item.ReceiptDate = fields[12]
	item.ShipInstruct = fields[13]
	item.ShipMode = fields[14]
	item.Comment = fields[15]
	return err
}
