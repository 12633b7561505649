package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/usth/uface/internal/model"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const pgUniqueViolation pq.ErrorCode = "23505"

// PostgresStudentRepo はPostgreSQLを使用した学生リポジトリ。
type PostgresStudentRepo struct {
	db DBTX
}

// NewPostgresStudentRepo はPostgresStudentRepoを生成する。
func NewPostgresStudentRepo(db DBTX) *PostgresStudentRepo {
	return &PostgresStudentRepo{db: db}
}

// Create は学生を1件登録し、RETURNINGで得たstudent_idを返す。
// 一意制約違反はmodel.ErrDuplicateRegistrationとして返す。
func (r *PostgresStudentRepo) Create(ctx context.Context, student *model.Student) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var studentID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO students (full_name, student_id, student_email)
		 VALUES ($1, $2, $3)
		 RETURNING student_id`,
		student.FullName, student.StudentID, student.SchoolEmail,
	).Scan(&studentID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return "", fmt.Errorf("%w: %s", model.ErrDuplicateRegistration, constraint)
		}
		return "", fmt.Errorf("failed to insert student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return studentID, nil
}

// FindByStudentID はstudent_idで学生を取得する。見つからない場合はnilを返す。
func (r *PostgresStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	s := &model.Student{}
	err := r.db.QueryRowContext(ctx,
		`SELECT full_name, student_id, student_email FROM students WHERE student_id = $1`,
		studentID,
	).Scan(&s.FullName, &s.StudentID, &s.SchoolEmail)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student by student_id: %w", err)
	}

	return s, nil
}

// List はstudent_id昇順で学生一覧を返す。
func (r *PostgresStudentRepo) List(ctx context.Context, limit, offset int) ([]*model.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT full_name, student_id, student_email
		 FROM students
		 ORDER BY student_id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []*model.Student{}
	for rows.Next() {
		s := &model.Student{}
		if err := rows.Scan(&s.FullName, &s.StudentID, &s.SchoolEmail); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// uniqueViolation はerrが一意制約違反かどうかを判定し、違反した制約名を返す。
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// compile-time interface check
var _ StudentRepository = (*PostgresStudentRepo)(nil)
