package tools

import (
	"math"
	"testing"
)

func TestEvalExpression(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1 + 2", 3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-5 + 3", -2},
		{"--4", 4},
		{"2 * (3 + (4 - 1))", 12},
		{"3.5 * 2", 7},
		{"100", 100},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evalExpression(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestEvalExpression_Errors(t *testing.T) {
	tests := []string{
		"",
		"2 +",
		"(2 + 3",
		"2 ^ 3",
		"abc",
		"1 / 0",
		"4 5",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			if _, err := evalExpression(expr); err == nil {
				t.Errorf("expected error for %q", expr)
			}
		})
	}
}
