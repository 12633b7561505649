package model

// Student は登録済みの学生レコードを表す。
// student_id と school_email はストレージ側の一意制約で重複が防がれる。
type Student struct {
	FullName    string
	StudentID   string
	SchoolEmail string
}

// Submission は登録フォームから取り出した1件の送信内容。
// form タグはフォームのフィールド名で、バリデーションエラーの報告にも使う。
type Submission struct {
	FullName    string `form:"full_name" validate:"required"`
	StudentID   string `form:"student_id" validate:"required"`
	SchoolEmail string `form:"school_email" validate:"required"`
}

// ToStudent は送信内容を永続化用のStudentに変換する。
func (s Submission) ToStudent() *Student {
	return &Student{
		FullName:    s.FullName,
		StudentID:   s.StudentID,
		SchoolEmail: s.SchoolEmail,
	}
}
