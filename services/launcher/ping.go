package launcher

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/pgvault/pgvault/vault"
)

// Ping verifies that the resolved connection material actually authenticates
// against the server, without starting a client session.
func Ping(ctx context.Context, conn vault.Connection, password string) error {
	db, err := sql.Open("postgres", URL(conn, password))
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", conn.Addr(), err)
	}

	return nil
}
