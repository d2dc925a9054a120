package history

import "github.com/jmoiron/sqlx"

func DB(s *Store) *sqlx.DB {
	return s.db
}
