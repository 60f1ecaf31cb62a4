package eval

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/coulomb/core"
)

func testRequest() Request {
	return Request{Xs: []float64{1, 2.5, 4}, Eta: 0.5, Range: core.LRange{Min: 0, Max: 3}}
}

// stubEval returns a fixed response and counts calls.
func stubEval(calls *int, err error) EvalFunc {
	return func(ctx context.Context, req Request) (*Response, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return &Response{Report: &core.BatchReport{Rows: []*core.Report{{Converged: true}}}}, nil
	}
}

// -----------------------------------------------------------------------------
// Core Types Tests
// -----------------------------------------------------------------------------

func TestEvalContextFromContext(t *testing.T) {
	ctx := context.Background()
	if ec := EvalContextFromContext(ctx); ec != nil {
		t.Error("expected nil for context without EvalContext")
	}

	expected := &EvalContext{RunID: "run-123", Metadata: map[string]any{"key": "value"}}
	ctx = ContextWithEvalContext(ctx, expected)
	ec := EvalContextFromContext(ctx)
	if ec == nil {
		t.Fatal("expected EvalContext, got nil")
	}
	if ec.RunID != "run-123" {
		t.Errorf("RunID = %q, want run-123", ec.RunID)
	}
	if ec.Metadata["key"] != "value" {
		t.Errorf("Metadata[key] = %v, want value", ec.Metadata["key"])
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "valid", req: testRequest()},
		{name: "no points", req: Request{Range: core.LRange{Max: 1}}, wantErr: core.ErrInvalidArgument},
		{name: "bad range", req: Request{Xs: []float64{1}, Range: core.LRange{Min: 2, Max: 1}}, wantErr: core.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChain(t *testing.T) {
	var order []string

	mark := func(name string) Middleware {
		return func(next EvalFunc) EvalFunc {
			return func(ctx context.Context, req Request) (*Response, error) {
				order = append(order, name+"-before")
				resp, err := next(ctx, req)
				order = append(order, name+"-after")
				return resp, err
			}
		}
	}

	final := func(ctx context.Context, req Request) (*Response, error) {
		order = append(order, "eval")
		return &Response{}, nil
	}

	if _, err := Chain(mark("m1"), mark("m2"))(final)(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"m1-before", "m2-before", "eval", "m2-after", "m1-after"}
	if len(order) != len(expected) {
		t.Fatalf("order = %v, want %v", order, expected)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, want %q", i, order[i], v)
		}
	}
}

func TestNewAssignsRunID(t *testing.T) {
	var seen []string
	capture := func(ctx context.Context, req Request) (*Response, error) {
		ec := EvalContextFromContext(ctx)
		if ec == nil {
			t.Fatal("expected EvalContext in pipeline")
		}
		seen = append(seen, ec.RunID)
		return &Response{}, nil
	}

	run := New(capture)
	run(context.Background(), testRequest())
	run(context.Background(), testRequest())

	if len(seen) != 2 || seen[0] == "" || seen[0] == seen[1] {
		t.Errorf("run IDs = %v, want two distinct non-empty IDs", seen)
	}

	ctx := ContextWithEvalContext(context.Background(), &EvalContext{RunID: "fixed"})
	run(ctx, testRequest())
	if seen[2] != "fixed" {
		t.Errorf("RunID = %q, want caller-provided fixed", seen[2])
	}
}

func TestHandler(t *testing.T) {
	h := Handler(core.NewSolver())
	req := testRequest()

	resp, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	r, c := resp.Values.F.Dims()
	if r != 3 || c != 4 {
		t.Errorf("F dims = %dx%d, want 3x4", r, c)
	}
	if resp.Values.G == nil {
		t.Error("G should be computed by default")
	}
	if len(resp.Report.Rows) != 3 {
		t.Errorf("len(Rows) = %d, want 3", len(resp.Report.Rows))
	}

	req.SkipG = true
	resp, err = h(context.Background(), req)
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if resp.Values.G != nil || resp.Values.Gp != nil {
		t.Error("G and G' should be nil with SkipG")
	}
}

func TestHandlerRejectsEmptyRequest(t *testing.T) {
	_, err := Handler(core.NewSolver())(context.Background(), Request{Range: core.LRange{}})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

// -----------------------------------------------------------------------------
// Logging Middleware Tests
// -----------------------------------------------------------------------------

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	calls := 0
	run := New(stubEval(&calls, nil), WithLogging(logger))
	ctx := ContextWithEvalContext(context.Background(), &EvalContext{RunID: "abc"})

	if _, err := run(ctx, testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "eval start: run=abc points=3") {
		t.Errorf("expected start log, got: %s", output)
	}
	if !strings.Contains(output, "eval success: run=abc") {
		t.Errorf("expected success log, got: %s", output)
	}
}

func TestWithLoggingError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	calls := 0
	run := New(stubEval(&calls, errors.New("eval failed")), WithLogging(logger))

	if _, err := run(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "eval error: run=") {
		t.Errorf("expected error log, got: %s", buf.String())
	}
}

// -----------------------------------------------------------------------------
// Timeout Middleware Tests
// -----------------------------------------------------------------------------

func TestWithTimeout(t *testing.T) {
	slow := func(ctx context.Context, req Request) (*Response, error) {
		select {
		case <-time.After(100 * time.Millisecond):
			return &Response{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if _, err := WithTimeout(time.Second)(slow)(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error with sufficient timeout: %v", err)
	}

	_, err := WithTimeout(10*time.Millisecond)(slow)(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got: %v", err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout message, got: %v", err)
	}
}

func TestWithTimeoutStopsSolver(t *testing.T) {
	run := New(Handler(core.NewSolver(core.WithWorkers(1))), WithTimeout(time.Nanosecond))

	xs := make([]float64, 2000)
	for i := range xs {
		xs[i] = 1 + float64(i)
	}
	_, err := run(context.Background(), Request{Xs: xs, Range: core.LRange{Max: 20}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

// -----------------------------------------------------------------------------
// Validation Middleware Tests
// -----------------------------------------------------------------------------

func TestWithValidation(t *testing.T) {
	limits := Limits{MaxPoints: 3, MaxL: 10, MaxAbsEta: 5}

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "within limits", req: testRequest()},
		{name: "too many points", req: Request{Xs: []float64{1, 2, 3, 4}, Range: core.LRange{Max: 1}}, wantErr: ErrLimitExceeded},
		{name: "l too large", req: Request{Xs: []float64{1}, Range: core.LRange{Max: 11}}, wantErr: ErrLimitExceeded},
		{name: "eta too large", req: Request{Xs: []float64{1}, Eta: -6, Range: core.LRange{Max: 1}}, wantErr: ErrLimitExceeded},
		{name: "empty", req: Request{Range: core.LRange{Max: 1}}, wantErr: core.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := WithValidation(limits)(stubEval(&calls, nil))(context.Background(), tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if calls != 1 {
					t.Errorf("calls = %d, want 1", calls)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if calls != 0 {
				t.Errorf("calls = %d, want 0 (rejected before evaluation)", calls)
			}
		})
	}
}

func TestWithValidationZeroLimitsUnbounded(t *testing.T) {
	calls := 0
	req := Request{Xs: make([]float64, 10000), Eta: 1e6, Range: core.LRange{Max: 1000}}
	if _, err := WithValidation(Limits{})(stubEval(&calls, nil))(context.Background(), req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// -----------------------------------------------------------------------------
// Caching Middleware Tests
// -----------------------------------------------------------------------------

func TestWithCache(t *testing.T) {
	calls := 0
	run := New(stubEval(&calls, nil), WithCache(NewMemoryCache(), time.Hour))

	first, err := run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("first call error: %v", err)
	}
	second, err := run(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (cached)", calls)
	}
	if first != second {
		t.Error("expected the cached response")
	}

	other := testRequest()
	other.Eta = 0.75
	if _, err := run(context.Background(), other); err != nil {
		t.Fatalf("third call error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithCacheMarksHit(t *testing.T) {
	calls := 0
	run := New(stubEval(&calls, nil), WithCache(NewMemoryCache(), time.Hour))
	run(context.Background(), testRequest())

	ec := &EvalContext{RunID: "second"}
	run(ContextWithEvalContext(context.Background(), ec), testRequest())
	if hit, _ := ec.Metadata["cache_hit"].(bool); !hit {
		t.Error("expected cache_hit metadata on second call")
	}
}

func TestWithCacheDoesNotCacheErrors(t *testing.T) {
	calls := 0
	run := New(stubEval(&calls, errors.New("boom")), WithCache(NewMemoryCache(), time.Hour))

	run(context.Background(), testRequest())
	if _, err := run(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (errors not cached)", calls)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache()
	resp := &Response{}
	cache.Set("key", resp, 50*time.Millisecond)

	if got, ok := cache.Get("key"); !ok || got != resp {
		t.Error("expected value to be present")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := cache.Get("key"); ok {
		t.Error("expected value to be expired")
	}
}

func TestDefaultCacheKey(t *testing.T) {
	base := testRequest()
	key := DefaultCacheKey(base)

	if key != DefaultCacheKey(testRequest()) {
		t.Error("same inputs should produce same key")
	}

	variants := []func(r *Request){
		func(r *Request) { r.Eta = -0.5 },
		func(r *Request) { r.Range.Max = 4 },
		func(r *Request) { r.Range.Min = 1 },
		func(r *Request) { r.SkipG = true },
		func(r *Request) { r.Xs = []float64{1, 2.5} },
		func(r *Request) { r.Xs = []float64{1, 2.5, 4.000000000000001} },
	}
	for i, mutate := range variants {
		r := testRequest()
		mutate(&r)
		if DefaultCacheKey(r) == key {
			t.Errorf("variant %d should produce a different key", i)
		}
	}
}
