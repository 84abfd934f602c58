package dao

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"orderwindow/pkg/tpch"
)

// ScanIter iterates rows returned by an order key scan. Rows come back in
// the store's clustering order, ascending line number.
type ScanIter interface {
	// Next returns the next row, or ok == false once the scan is drained.
	Next() (row tpch.QueryRow, ok bool)
	// Close releases the scan and reports any error hit while iterating.
	Close() error
}

// LineItemDAO is the remote store client used by the workers. Writes and
// mutations are buffered and sent in batches of up to the configured
// maximum size; FinishWriting flushes whatever is pending. A DAO instance
// belongs to a single worker goroutine.
type LineItemDAO interface {
	OpenScan(orderKey int64) (ScanIter, error)
	WriteLine(item *tpch.LineItem) error
	MutateLine(key tpch.RowKey, m tpch.Mutation) error
	FinishWriting() error
}

// RPCLineItemDAO talks CQL to ScyllaDB/Cassandra through a shared session.
// The batch buffer is per-DAO and must not be shared between goroutines.
type RPCLineItemDAO struct {
	session      *gocql.Session
	keyspace     string
	table        string
	maxBatchSize int

	batch     *gocql.Batch
	batchSize int

	scanStmt   string
	insertStmt string
}

func NewRPCLineItemDAO(session *gocql.Session, keyspace, table string, maxBatchSize int) *RPCLineItemDAO {
	if maxBatchSize < 1 {
		maxBatchSize = 1
	}
	return &RPCLineItemDAO{
		session:      session,
		keyspace:     keyspace,
		table:        table,
		maxBatchSize: maxBatchSize,
		scanStmt: fmt.Sprintf(
			"SELECT l_orderkey, l_linenumber, l_quantity FROM %s.%s WHERE l_orderkey = ?",
			keyspace, table),
		insertStmt: fmt.Sprintf(
			"INSERT INTO %s.%s (l_orderkey, l_partkey, l_suppkey, l_linenumber, l_quantity,"+
				" l_extendedprice, l_discount, l_tax, l_returnflag, l_linestatus, l_shipdate,"+
				" l_commitdate, l_receiptdate, l_shipinstruct, l_shipmode, l_comment)"+
				" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			keyspace, table),
	}
}

// OpenScan starts a scan over all line items of one order. The predicate
// is an exact match on the partition column, the CQL form of a range scan
// with equal lower and upper bounds.
func (d *RPCLineItemDAO) OpenScan(orderKey int64) (ScanIter, error) {
	return &cqlScanIter{iter: d.session.Query(d.scanStmt, orderKey).Iter()}, nil
}

func (d *RPCLineItemDAO) WriteLine(item *tpch.LineItem) error {
	d.queue(d.insertStmt,
		item.OrderKey, item.PartKey, item.SuppKey, item.LineNumber, item.Quantity,
		item.ExtendedPrice, item.Discount, item.Tax, item.ReturnFlag, item.LineStatus,
		item.ShipDate, item.CommitDate, item.ReceiptDate, item.ShipInstruct,
		item.ShipMode, item.Comment)
	if d.batchSize < d.maxBatchSize {
		return nil
	}
	return errors.Wrap(d.flush(), "write failed")
}

// MutateLine applies a single-column update to one row. Mutations go
// through the same batch buffer as writes.
func (d *RPCLineItemDAO) MutateLine(key tpch.RowKey, m tpch.Mutation) error {
	stmt := fmt.Sprintf("UPDATE %s.%s SET %s = ? WHERE l_orderkey = ? AND l_linenumber = ?",
		d.keyspace, d.table, m.Column)
	d.queue(stmt, m.Value, key.OrderKey, key.LineNumber)
	if d.batchSize < d.maxBatchSize {
		return nil
	}
	return errors.Wrap(d.flush(), "mutate failed")
}

// FinishWriting flushes any buffered statements.
func (d *RPCLineItemDAO) FinishWriting() error {
	return errors.Wrap(d.flush(), "flush failed")
}

func (d *RPCLineItemDAO) queue(stmt string, values ...interface{}) {
	if d.batch == nil {
		d.batch = d.session.NewBatch(gocql.UnloggedBatch)
	}
	d.batch.Query(stmt, values...)
	d.batchSize++
}

func (d *RPCLineItemDAO) flush() error {
	if d.batch == nil {
		return nil
	}
	batch := d.batch
	d.batch = nil
	d.batchSize = 0
	return d.session.ExecuteBatch(batch)
}

type cqlScanIter struct {
	iter *gocql.Iter
}

func (s *cqlScanIter) Next() (tpch.QueryRow, bool) {
	var row tpch.QueryRow
	ok := s.iter.Scan(&row.OrderKey, &row.LineNumber, &row.Quantity)
	return row, ok
}

func (s *cqlScanIter) Close() error {
	return errors.Wrap(s.iter.Close(), "scan failed")
}
