package repository

import (
	"context"
	"database/sql"
)

// PostgresStudentStoreOpener はリクエストごとに接続を確立し、
// その接続に紐づいたStudentStoreを返す。
type PostgresStudentStoreOpener struct {
	acquirer ConnAcquirer
}

// NewPostgresStudentStoreOpener はPostgresStudentStoreOpenerを生成する。
func NewPostgresStudentStoreOpener(acquirer ConnAcquirer) *PostgresStudentStoreOpener {
	return &PostgresStudentStoreOpener{acquirer: acquirer}
}

// OpenStudentStore は新しい接続を確立してStudentStoreを返す。
// 接続に失敗した場合はConnAcquirerのエラーをそのまま返す。
func (o *PostgresStudentStoreOpener) OpenStudentStore(ctx context.Context) (StudentStore, error) {
	conn, err := o.acquirer.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return &postgresStudentStore{
		PostgresStudentRepo: NewPostgresStudentRepo(conn),
		conn:                conn,
	}, nil
}

// postgresStudentStore は*sql.Connに紐づいたPostgresStudentRepo。
type postgresStudentStore struct {
	*PostgresStudentRepo
	conn *sql.Conn
}

// Close は接続を解放する。
func (s *postgresStudentStore) Close() error {
	return s.conn.Close()
}

// compile-time interface check
var _ StudentStoreOpener = (*PostgresStudentStoreOpener)(nil)
