package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStudentExists   = errors.New("student already exists")
	ErrStudentNotFound = errors.New("student not found")
)

// Student is one roster entry with its per-subject performance.
type Student struct {
	ID        int
	Name      string
	Grade     string
	Notes     string
	CreatedAt time.Time
	Subjects  map[string]float64
}

// StudentRepo manages the student roster. Name matching is
// case-insensitive throughout.
type StudentRepo interface {
	// AddStudent creates a roster entry. Returns ErrStudentExists if a
	// student with the same name already exists.
	AddStudent(ctx context.Context, name, grade, notes string) error

	// SetSubject records or updates a subject GPA for a student.
	// Returns ErrStudentNotFound if the student does not exist.
	SetSubject(ctx context.Context, studentName, subject string, gpa float64) error

	// RemoveStudent deletes a student and their subjects. Returns
	// ErrStudentNotFound if the student does not exist.
	RemoveStudent(ctx context.Context, name string) error

	// GetStudent returns one student, or nil if absent.
	GetStudent(ctx context.Context, name string) (*Student, error)

	// ListStudents returns all students ordered by name.
	ListStudents(ctx context.Context) ([]Student, error)
}

type studentRepo struct {
	db *sql.DB
}

func (r *studentRepo) AddStudent(ctx context.Context, name, grade, notes string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (name, grade, notes, created_at) VALUES (?, ?, ?, ?)`,
		name, grade, notes, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrStudentExists, name)
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *studentRepo) SetSubject(ctx context.Context, studentName, subject string, gpa float64) error {
	id, err := r.studentID(ctx, studentName)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO student_subjects (student_id, subject, gpa) VALUES (?, ?, ?)
		 ON CONFLICT (student_id, subject) DO UPDATE SET gpa = excluded.gpa`,
		id, subject, gpa,
	)
	if err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}
	return nil
}

func (r *studentRepo) RemoveStudent(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrStudentNotFound, name)
	}
	return nil
}

func (r *studentRepo) GetStudent(ctx context.Context, name string) (*Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, grade, notes, created_at FROM students WHERE name = ?`, name)

	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	if err := r.loadSubjects(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *studentRepo) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, grade, notes, created_at FROM students ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	for i := range students {
		if err := r.loadSubjects(ctx, &students[i]); err != nil {
			return nil, err
		}
	}
	return students, nil
}

func (r *studentRepo) studentID(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT id FROM students WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrStudentNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup student: %w", err)
	}
	return id, nil
}

func (r *studentRepo) loadSubjects(ctx context.Context, s *Student) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subject, gpa FROM student_subjects WHERE student_id = ? ORDER BY subject`, s.ID)
	if err != nil {
		return fmt.Errorf("load subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subject string
		var gpa float64
		if err := rows.Scan(&subject, &gpa); err != nil {
			return fmt.Errorf("scan subject: %w", err)
		}
		if s.Subjects == nil {
			s.Subjects = make(map[string]float64)
		}
		s.Subjects[subject] = gpa
	}
	return rows.Err()
}

func scanStudent(row scanner) (*Student, error) {
	var s Student
	var ts int64
	if err := row.Scan(&s.ID, &s.Name, &s.Grade, &s.Notes, &ts); err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(ts, 0)
	return &s, nil
}

// isUniqueViolation detects SQLite constraint errors without depending
// on driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint violation")
}
