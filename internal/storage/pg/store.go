package pg

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aldenluthfi/situs-backend/internal/storage"
)

// Store is the Postgres implementation of storage.Store.
type Store struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

func NewStore(pool *ConnectionPool) *Store {
	return &Store{pool: pool, db: pool.conn}
}

func (s *Store) Close() {
	s.pool.Close()
}
