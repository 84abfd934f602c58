package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"orderwindow/pkg/dao"
	"orderwindow/pkg/results"
	"orderwindow/pkg/testutil"
	"orderwindow/pkg/tpch"
	"orderwindow/pkg/window"
)

// TestIntegration runs the insert and update workers against a real
// ScyllaDB container.
// Run with: RUN_CONTAINER_TESTS=true go test -v -run TestIntegration
func TestIntegration(t *testing.T) {
	if os.Getenv("RUN_CONTAINER_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_CONTAINER_TESTS=true to run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	container, err := testutil.NewScyllaDBContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start ScyllaDB container: %v", err)
	}
	defer func() {
		if err = container.Close(ctx); err != nil {
			t.Logf("Failed to close container: %v", err)
		}
	}()

	const (
		keyspace = "tpch"
		table    = "lineitem"
	)
	if err = container.CreateKeyspace(keyspace, 1); err != nil {
		t.Fatalf("Failed to create keyspace: %v", err)
	}
	if err = container.CreateLineItemTable(keyspace, table); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	const dataset = `1001|10|20|1|5|100.0|0.01|0.02|N|O|1996-01-01|1996-01-02|1996-01-03|NONE|MAIL|first line|
1001|11|21|2|7|200.0|0.03|0.04|N|O|1996-01-04|1996-01-05|1996-01-06|NONE|RAIL|second line|
1002|12|22|1|9|300.0|0.05|0.06|R|F|1994-01-01|1994-01-02|1994-01-03|NONE|SHIP|third line|
`
	path := filepath.Join(t.TempDir(), "lineitem.tbl")
	if err = os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("inserter loads the dataset", func(t *testing.T) {
		imp, err := tpch.NewImporter(path)
		if err != nil {
			t.Fatal(err)
		}
		defer imp.Close()

		win := window.New(10, 1000)
		d := dao.NewRPCLineItemDAO(container.Session, keyspace, table, 2)
		res := results.NewWorkerResult(30*time.Second, false)

		if err := RunInserter(win, imp, d, res); err != nil {
			t.Fatalf("RunInserter() = %v", err)
		}
		if win.Cursor() != 1002 {
			t.Errorf("window cursor = %d; want 1002", win.Cursor())
		}

		var count int
		if err := container.Session.Query(
			"SELECT COUNT(*) FROM tpch.lineitem").Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 3 {
			t.Errorf("row count = %d; want 3", count)
		}
	})

	t.Run("updater bumps the highest line number", func(t *testing.T) {
		// A window of width 1 over cursor 1002 pins sampling to order 1001.
		win := window.New(1, 1002)
		d := dao.NewRPCLineItemDAO(container.Session, keyspace, table, 1)
		res := results.NewWorkerResult(30*time.Second, true)

		errCh := make(chan error, 1)
		go func() {
			errCh <- RunUpdater(win, d, res)
		}()

		deadline := time.Now().Add(time.Minute)
		for {
			var quantity int64
			err := container.Session.Query(
				"SELECT l_quantity FROM tpch.lineitem WHERE l_orderkey = 1001 AND l_linenumber = 2").
				Scan(&quantity)
			if err != nil {
				t.Fatal(err)
			}
			if quantity > 7 {
				break
			}
			select {
			case err := <-errCh:
				t.Fatalf("RunUpdater() = %v", err)
			default:
			}
			if time.Now().After(deadline) {
				t.Fatal("quantity of order 1001 line 2 never increased")
			}
			time.Sleep(100 * time.Millisecond)
		}

		// Line 1 is not the highest line number, so it must stay untouched.
		var quantity int64
		if err := container.Session.Query(
			"SELECT l_quantity FROM tpch.lineitem WHERE l_orderkey = 1001 AND l_linenumber = 1").
			Scan(&quantity); err != nil {
			t.Fatal(err)
		}
		if quantity != 5 {
			t.Errorf("quantity of order 1001 line 1 = %d; want 5", quantity)
		}
	})
}
