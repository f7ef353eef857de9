package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// TestIsUniqueViolation は一意制約違反の判定を検証する。
// ラップされたエラーからも検出できること。
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "一意制約違反",
			err:  &pq.Error{Code: "23505"},
			want: true,
		},
		{
			name: "ラップされた一意制約違反",
			err:  fmt.Errorf("failed to insert user: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "別のPostgreSQLエラー",
			err:  &pq.Error{Code: "23503"}, // 外部キー制約違反
			want: false,
		},
		{
			name: "pq以外のエラー",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
