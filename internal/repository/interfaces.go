// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/usth/uface/internal/model"
)

// StudentRepository は学生登録データの永続化インターフェース。
type StudentRepository interface {
	// Create は学生を1件登録し、登録されたstudent_idを返す。
	// student_idまたはschool_emailが重複する場合はmodel.ErrDuplicateRegistrationをラップしたエラーを返す。
	Create(ctx context.Context, student *model.Student) (string, error)

	// FindByStudentID はstudent_idで学生を取得する。見つからない場合はnilを返す。
	FindByStudentID(ctx context.Context, studentID string) (*model.Student, error)

	// List はstudent_id昇順で学生一覧を返す。
	List(ctx context.Context, limit, offset int) ([]*model.Student, error)
}

// StudentStore は1本のデータベース接続に紐づいたStudentRepository。
// 使い終わったら必ずCloseで接続を解放すること。
type StudentStore interface {
	StudentRepository

	// Close は紐づいた接続を解放する。
	Close() error
}

// StudentStoreOpener はリクエストごとにStudentStoreを開く。
type StudentStoreOpener interface {
	// OpenStudentStore は新しい接続を確立し、それに紐づいたStudentStoreを返す。
	OpenStudentStore(ctx context.Context) (StudentStore, error)
}

// DBTX は*sql.DBと*sql.Connの共通操作。
type DBTX interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnAcquirer はデータベース接続を1本払い出す。
// database.Providerが実装する。
type ConnAcquirer interface {
	Acquire(ctx context.Context) (*sql.Conn, error)
}
