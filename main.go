package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gocql/gocql"

	"orderwindow/internal/version"
	"orderwindow/pkg/command_line"
	"orderwindow/pkg/dao"
	"orderwindow/pkg/results"
	"orderwindow/pkg/tpch"
	"orderwindow/pkg/window"
)

// orderwindow drives both inserts and read+mutates on the tpch lineitem
// table. Load the initial dataset first, then point -data-file at a larger
// file to keep inserting while updaters chase the trailing window. Only
// one inserter can run, but many updaters can be specified.

var arguments = command_line.CommandLineArguments{}

func Query(session *gocql.Session, request string) {
	if err := session.Query(request).Exec(); err != nil {
		log.Fatal(err)
	}
}

func PrepareDatabase(session *gocql.Session, replicationFactor int) {
	Query(session, fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : %d }",
		arguments.KeyspaceName, replicationFactor))
	Query(session, fmt.Sprintf(tpch.LineItemDDL, arguments.KeyspaceName, arguments.TableName))
}

func CreateSession() *gocql.Session {
	session, err := arguments.BuildCQLClusterConfig().CreateSession()
	if err != nil {
		log.Fatal(err)
	}
	return session
}

func RunOsSignalHandler() {
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	go func() {
		<-interrupted
		fmt.Println("\ninterrupted")
		os.Exit(130)
	}()
}

func main() {
	arguments.PrepareCommandLineParser()
	arguments.Parse()
	if arguments.ShowVersion {
		fmt.Println(version.Get())
		return
	}
	if err := arguments.Validate(); err != nil {
		log.Fatal(err)
	}
	arguments.PrintValues()

	session := CreateSession()
	defer session.Close()
	PrepareDatabase(session, arguments.ReplicationFactor)

	win := window.New(arguments.WindowSize, arguments.StartingPoint)

	workerCount := arguments.UpdaterCount + arguments.InserterCount
	workerResults := make([]*results.WorkerResult, 0, workerCount)
	newDAO := func() *dao.RPCLineItemDAO {
		return dao.NewRPCLineItemDAO(session, arguments.KeyspaceName, arguments.TableName, arguments.MaxBatchSize)
	}

	for i := 0; i < arguments.UpdaterCount; i++ {
		res := results.NewWorkerResult(arguments.Timeout, arguments.MeasureLatency)
		workerResults = append(workerResults, res)
		d := newDAO()
		go func(i int) {
			// no retry policy: a store error kills the process
			if err := RunUpdater(win, d, res); err != nil {
				log.Fatalf("updater %d: %+v", i, err)
			}
		}(i)
	}

	if arguments.InserterCount == 1 {
		imp, err := tpch.NewImporter(arguments.DataFile)
		if err != nil {
			log.Fatal(err)
		}
		res := results.NewWorkerResult(arguments.Timeout, arguments.MeasureLatency)
		workerResults = append(workerResults, res)
		d := newDAO()
		go func() {
			defer imp.Close()
			if err := RunInserter(win, imp, d, res); err != nil {
				log.Fatalf("inserter: %+v", err)
			}
			log.Printf("inserter finished: input exhausted at order %d", win.Cursor())
		}()
	}

	reporter := results.NewReporter(workerResults, arguments.ReportInterval, arguments.Timeout, arguments.MeasureLatency)
	reporter.PrintHeader()
	go reporter.Run()

	RunOsSignalHandler()

	// Workers run until the process is killed; the inserter finishing does
	// not stop the updaters.
	select {}
}
