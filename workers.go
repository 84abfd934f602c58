package main

import (
	"time"

	"github.com/pkg/errors"

	"orderwindow/pkg/dao"
	"orderwindow/pkg/results"
	"orderwindow/pkg/tpch"
	"orderwindow/pkg/window"
)

// RunUpdater continuously bumps l_quantity on orders picked from the
// trailing window. Each iteration reads all line items of one order, takes
// the last returned row (the scan comes back in clustering order, so that
// is the highest line number) and writes quantity+1 to it.
//
// A sampled order with no data yet is expected, especially near the
// leading edge of the window, and is resampled immediately. Any store
// error ends the loop.
func RunUpdater(win *window.Window, d dao.LineItemDAO, res *results.WorkerResult) error {
	for {
		orderKey := win.Sample()

		requestStart := time.Now()
		iter, err := d.OpenScan(orderKey)
		if err != nil {
			return errors.Wrapf(err, "failed to open scan of order %d", orderKey)
		}
		var last tpch.QueryRow
		var rows int64
		for {
			row, ok := iter.Next()
			if !ok {
				break
			}
			last = row
			rows++
		}
		if err := iter.Close(); err != nil {
			return errors.Wrapf(err, "scan of order %d failed", orderKey)
		}
		if rows == 0 {
			res.RecordEmptyScan()
			continue
		}

		key := tpch.RowKey{OrderKey: last.OrderKey, LineNumber: last.LineNumber}
		if err := d.MutateLine(key, tpch.QuantityUpdate(last.Quantity+1)); err != nil {
			return errors.Wrapf(err, "failed to update order %d line %d", key.OrderKey, key.LineNumber)
		}
		res.RecordOp(rows, time.Since(requestStart))
	}
}

// RunInserter streams the lineitem dataset into the store and moves the
// window forward after every written record. Without an inserter the
// window never moves. Returns nil once the input is exhausted, after
// flushing buffered writes.
func RunInserter(win *window.Window, imp *tpch.Importer, d dao.LineItemDAO, res *results.WorkerResult) error {
	var item tpch.LineItem
	for {
		orderKey, err := imp.NextLine(&item)
		if err != nil {
			return err
		}
		if orderKey == 0 {
			break
		}

		requestStart := time.Now()
		if err := d.WriteLine(&item); err != nil {
			return errors.Wrapf(err, "failed to write order %d line %d", item.OrderKey, item.LineNumber)
		}
		res.RecordOp(1, time.Since(requestStart))

		win.Advance(orderKey)
	}
	return d.FinishWriting()
}
