package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg 23505", &pgconn.PgError{Code: "23505"}, true},
		{"包装后的 pg 23505", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg 其他错误", &pgconn.PgError{Code: "23503"}, false},
		{"gorm ErrDuplicatedKey", gorm.ErrDuplicatedKey, true},
		{"ErrDuplicate", ErrDuplicate, true},
		{"普通错误", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Errorf("期望 %v，实际 %v", tc.want, got)
			}
		})
	}
}
