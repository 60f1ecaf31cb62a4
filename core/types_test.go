package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestRange(t *testing.T) {
	tests := []struct {
		name    string
		lmin    int
		lmax    int
		wantLen int
		wantErr bool
	}{
		{name: "single", lmin: 0, lmax: 0, wantLen: 1},
		{name: "offset", lmin: 3, lmax: 7, wantLen: 5},
		{name: "negative min", lmin: -1, lmax: 2, wantErr: true},
		{name: "reversed", lmin: 4, lmax: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr, err := Range(tt.lmin, tt.lmax)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("Range() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Range() error = %v", err)
			}
			if lr.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", lr.Len(), tt.wantLen)
			}
		})
	}
}

func TestFirstN(t *testing.T) {
	lr, err := FirstN(4)
	if err != nil {
		t.Fatalf("FirstN() error = %v", err)
	}
	if lr != (LRange{Min: 0, Max: 3}) {
		t.Errorf("FirstN(4) = %v, want 0..3", lr)
	}

	if _, err := FirstN(0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("FirstN(0) error = %v, want ErrInvalidRange", err)
	}
}

func TestRangeOf(t *testing.T) {
	lr, err := RangeOf([]int{2, 3, 4})
	if err != nil {
		t.Fatalf("RangeOf() error = %v", err)
	}
	if lr != (LRange{Min: 2, Max: 4}) {
		t.Errorf("RangeOf() = %v, want 2..4", lr)
	}
	if got := lr.Ls(); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Errorf("Ls() = %v", got)
	}

	bad := [][]int{nil, {1, 3}, {2, 1}, {-1, 0}}
	for _, ls := range bad {
		if _, err := RangeOf(ls); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("RangeOf(%v) error = %v, want ErrInvalidRange", ls, err)
		}
	}
}

func TestLRangeString(t *testing.T) {
	if got := (LRange{Min: 1, Max: 5}).String(); got != "1..5" {
		t.Errorf("String() = %q, want 1..5", got)
	}
}

func TestValuesCheck(t *testing.T) {
	lr := LRange{Min: 0, Max: 2}

	tests := []struct {
		name      string
		v         Values
		wantG     bool
		wantError bool
	}{
		{name: "with G", v: NewValues(lr, true), wantG: true},
		{name: "without G", v: NewValues(lr, false)},
		{name: "short F", v: Values{F: make([]float64, 2), Fp: make([]float64, 3)}, wantError: true},
		{name: "G only", v: Values{F: make([]float64, 3), Fp: make([]float64, 3), G: make([]float64, 3)}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotG, err := tt.v.check(lr.Len())
			if tt.wantError {
				if !errors.Is(err, ErrDimensionMismatch) {
					t.Errorf("check() error = %v, want ErrDimensionMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("check() error = %v", err)
			}
			if gotG != tt.wantG {
				t.Errorf("check() wantG = %v, want %v", gotG, tt.wantG)
			}
		})
	}
}

func TestBatchReportNilRows(t *testing.T) {
	b := &BatchReport{Rows: []*Report{
		{Converged: true, Advisories: []Advisory{{Kind: AdvisoryTurningPoint}}},
		nil,
		{Converged: false, Unreliable: true},
	}}

	if b.Converged() {
		t.Error("Converged() = true, want false")
	}
	if !b.Unreliable() {
		t.Error("Unreliable() = false, want true")
	}
	if got := len(b.Advisories()); got != 1 {
		t.Errorf("len(Advisories()) = %d, want 1", got)
	}
}
