package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/scylladb"
	"github.com/testcontainers/testcontainers-go/wait"

	"orderwindow/pkg/tpch"
)

// ScyllaDBContainer wraps a throwaway ScyllaDB instance for integration
// tests, with a connected session.
type ScyllaDBContainer struct {
	Container *scylladb.Container
	Session   *gocql.Session
	Host      string
	Port      int
}

// NewScyllaDBContainer starts a ScyllaDB container and connects to it.
func NewScyllaDBContainer(ctx context.Context) (*ScyllaDBContainer, error) {
	container, err := scylladb.Run(ctx,
		"scylladb/scylla:2025.2",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Scylla version").
				WithStartupTimeout(2*time.Minute)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start ScyllaDB container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, "9042/tcp")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	port := mappedPort.Int()

	cluster := gocql.NewCluster(host)
	cluster.Port = port
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 30 * time.Second
	cluster.ConnectTimeout = 30 * time.Second
	cluster.NumConns = 1
	// Initial host lookup returns container-internal addresses
	cluster.DisableInitialHostLookup = true

	var session *gocql.Session
	var sessionErr error
	for i := 0; i < 10; i++ {
		session, sessionErr = cluster.CreateSession()
		if sessionErr == nil {
			break
		}
		time.Sleep(time.Duration(2<<uint(i)) * time.Second)
	}
	if sessionErr != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create session: %w", sessionErr)
	}

	return &ScyllaDBContainer{
		Container: container,
		Session:   session,
		Host:      host,
		Port:      port,
	}, nil
}

// CreateKeyspace creates a keyspace with the given replication factor.
func (c *ScyllaDBContainer) CreateKeyspace(keyspaceName string, replicationFactor int) error {
	query := fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : %d }",
		keyspaceName, replicationFactor)
	return c.Session.Query(query).Exec()
}

// CreateLineItemTable creates the lineitem table in the given keyspace.
func (c *ScyllaDBContainer) CreateLineItemTable(keyspaceName, tableName string) error {
	return c.Session.Query(fmt.Sprintf(tpch.LineItemDDL, keyspaceName, tableName)).Exec()
}

// Close closes the session and terminates the container.
func (c *ScyllaDBContainer) Close(ctx context.Context) error {
	if c.Session != nil {
		c.Session.Close()
	}
	if c.Container != nil {
		return c.Container.Terminate(ctx)
	}
	return nil
}
