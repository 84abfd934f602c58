package command_line

import (
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

type CommandLineArguments struct {
	CaCertFile        string
	ClientCertFile    string
	ClientCompression bool
	ClientKeyFile     string
	ConnectionCount   int
	ConsistencyLevel  string
	// Path to the '|' separated file containing the lineitem table.
	DataFile            string
	HostSelectionPolicy string
	HostVerification    bool
	InserterCount       int
	KeyspaceName        string
	MaxBatchSize        int
	MeasureLatency      bool
	Nodes               string
	PageSize            int
	Password            string
	ReplicationFactor   int
	ReportInterval      time.Duration
	ServerName          string
	ShowVersion         bool
	// Order number at which inserting starts; the window trails behind it.
	StartingPoint int64
	TableName     string
	Timeout       time.Duration
	TLSEncryption bool
	UpdaterCount  int
	Username      string
	// Size of the trailing window, in terms of order numbers.
	WindowSize int64
}

func (args *CommandLineArguments) PrepareCommandLineParser() {
	flag.StringVar(&args.DataFile, "data-file", "", "path to the '|' separated file containing the lineitem table")
	flag.Int64Var(&args.WindowSize, "window", 3000000, "size of the trailing window, in terms of order numbers")
	flag.Int64Var(&args.StartingPoint, "starting-point", 6000000, "order number from which inserting starts")
	flag.IntVar(&args.UpdaterCount, "updaters", 1, "number of goroutines that update, can be 0")
	flag.IntVar(&args.InserterCount, "inserters", 0, "number of goroutines that insert, min 0, max 1")
	flag.IntVar(&args.MaxBatchSize, "max-batch-size", 1000, "maximum number of inserts/updates to batch at once")

	flag.StringVar(&args.Nodes, "nodes", "127.0.0.1", "cluster contact points")
	flag.StringVar(&args.KeyspaceName, "keyspace", "tpch", "keyspace to use")
	flag.StringVar(&args.TableName, "table", "lineitem", "table to use")
	flag.IntVar(&args.ReplicationFactor, "replication-factor", 1, "replication factor")
	flag.StringVar(&args.ConsistencyLevel, "consistency-level", "quorum", "consistency level")
	flag.DurationVar(&args.Timeout, "timeout", 5*time.Second, "request timeout")
	flag.IntVar(&args.ConnectionCount, "connection-count", 4, "number of connections")
	flag.IntVar(&args.PageSize, "page-size", 1000, "page size")
	flag.BoolVar(&args.ClientCompression, "client-compression", true, "use compression for client-coordinator communication")
	flag.StringVar(&args.Username, "username", "", "cql username for authentication")
	flag.StringVar(&args.Password, "password", "", "cql password for authentication")

	flag.BoolVar(&args.MeasureLatency, "measure-latency", true, "measure request latency")
	flag.DurationVar(&args.ReportInterval, "report-interval", time.Second, "interval between result lines")

	flag.BoolVar(&args.TLSEncryption, "tls", false, "use TLS encryption")
	flag.StringVar(&args.ServerName, "tls-server-name", "", "TLS server hostname")
	flag.BoolVar(&args.HostVerification, "tls-host-verification", false, "verify server certificate")
	flag.StringVar(&args.CaCertFile, "tls-ca-cert-file", "", "path to CA certificate file, needed to enable encryption")
	flag.StringVar(&args.ClientCertFile, "tls-client-cert-file", "", "path to client certificate file, needed to enable client certificate authentication")
	flag.StringVar(&args.ClientKeyFile, "tls-client-key-file", "", "path to client key file, needed to enable client certificate authentication")

	flag.StringVar(&args.HostSelectionPolicy, "host-selection-policy", "token-aware", "set the driver host selection policy (round-robin,host-pool,token-aware), default 'token-aware'")

	flag.BoolVar(&args.ShowVersion, "version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, "Usage:\n%s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func (args *CommandLineArguments) Parse() {
	flag.Parse()
}

// Validate checks the configuration before any worker starts. Exactly one
// goroutine may advance the window, so more than one inserter is rejected.
func (args *CommandLineArguments) Validate() error {
	if args.InserterCount > 1 {
		return fmt.Errorf("can only insert with 1 goroutine, got %d inserters", args.InserterCount)
	}
	if args.InserterCount < 0 || args.UpdaterCount < 0 {
		return fmt.Errorf("worker counts cannot be negative")
	}
	if args.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", args.WindowSize)
	}
	if args.InserterCount == 1 && args.DataFile == "" {
		return fmt.Errorf("data-file must be provided when inserting")
	}
	if args.MaxBatchSize < 1 {
		return fmt.Errorf("max-batch-size must be at least 1, got %d", args.MaxBatchSize)
	}
	return nil
}

func (args *CommandLineArguments) PrintValues() {
	fmt.Println("Configuration")
	fmt.Println("Keyspace:\t\t", args.KeyspaceName)
	fmt.Println("Table:\t\t\t", args.TableName)
	fmt.Println("Window size:\t\t", args.WindowSize)
	fmt.Println("Starting point:\t\t", args.StartingPoint)
	fmt.Println("Updaters:\t\t", args.UpdaterCount)
	fmt.Println("Inserters:\t\t", args.InserterCount)
	if args.InserterCount > 0 {
		fmt.Println("Data file:\t\t", args.DataFile)
	}
	fmt.Println("Max batch size:\t\t", args.MaxBatchSize)
	fmt.Println("Timeout:\t\t", args.Timeout)
	fmt.Println("Consistency level:\t", args.ConsistencyLevel)
	fmt.Println("Replication factor:\t", args.ReplicationFactor)
	fmt.Println("Page size:\t\t", args.PageSize)
	fmt.Println("Connections:\t\t", args.ConnectionCount)
	fmt.Println("Client compression:\t", args.ClientCompression)
}

func (args *CommandLineArguments) BuildCQLClusterConfig() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(strings.Split(args.Nodes, ",")...)
	cluster.NumConns = args.ConnectionCount
	cluster.PageSize = args.PageSize
	cluster.Timeout = args.Timeout
	policy, err := buildHostSelectionPolicy(args.HostSelectionPolicy, strings.Split(args.Nodes, ","))
	if err != nil {
		log.Fatal(err)
	}
	cluster.PoolConfig.HostSelectionPolicy = policy

	switch args.ConsistencyLevel {
	case "any":
		cluster.Consistency = gocql.Any
	case "one":
		cluster.Consistency = gocql.One
	case "two":
		cluster.Consistency = gocql.Two
	case "three":
		cluster.Consistency = gocql.Three
	case "quorum":
		cluster.Consistency = gocql.Quorum
	case "all":
		cluster.Consistency = gocql.All
	case "local_quorum":
		cluster.Consistency = gocql.LocalQuorum
	case "each_quorum":
		cluster.Consistency = gocql.EachQuorum
	case "local_one":
		cluster.Consistency = gocql.LocalOne
	default:
		log.Fatal("unknown consistency level: ", args.ConsistencyLevel)
	}
	if args.ClientCompression {
		cluster.Compressor = &gocql.SnappyCompressor{}
	}

	if args.Username != "" && args.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: args.Username,
			Password: args.Password,
		}
	}

	if args.TLSEncryption {
		sslOpts := &gocql.SslOptions{
			Config: &tls.Config{
				ServerName: args.ServerName,
			},
			EnableHostVerification: args.HostVerification,
		}

		if args.CaCertFile != "" {
			if _, err := os.Stat(args.CaCertFile); err != nil {
				log.Fatal(err)
			}
			sslOpts.CaPath = args.CaCertFile
		}

		if args.ClientKeyFile != "" {
			if _, err := os.Stat(args.ClientKeyFile); err != nil {
				log.Fatal(err)
			}
			sslOpts.KeyPath = args.ClientKeyFile
		}

		if args.ClientCertFile != "" {
			if _, err := os.Stat(args.ClientCertFile); err != nil {
				log.Fatal(err)
			}
			sslOpts.CertPath = args.ClientCertFile
		}

		if args.ClientKeyFile != "" && args.ClientCertFile == "" {
			log.Fatal("tls-client-cert-file is required when tls-client-key-file is provided")
		}
		if args.ClientCertFile != "" && args.ClientKeyFile == "" {
			log.Fatal("tls-client-key-file is required when tls-client-cert-file is provided")
		}

		if args.HostVerification {
			if args.ServerName == "" {
				log.Fatal("tls-server-name is required when tls-host-verification is enabled")
			}
		}

		cluster.SslOpts = sslOpts
	}
	return cluster
}
