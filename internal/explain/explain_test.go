package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/shoplens/shoplens-backend/internal/config"
	"github.com/shoplens/shoplens-backend/internal/errs"
	"github.com/shoplens/shoplens-backend/internal/insights"
	"github.com/shoplens/shoplens-backend/internal/logger"
)

func testValidator() Validator {
	return Validator{RelativeTolerance: 0.01, AbsoluteTolerance: 0.5}
}

func TestExtractNumbers(t *testing.T) {
	cases := []struct {
		text string
		want []float64
	}{
		{"₹5000 over 120 days", []float64{5000, 120}},
		{"₹5,000.50 is 18.0% of sales", []float64{5000.50, 18}},
		{"no numbers here", nil},
		{"margin of -3.5", []float64{-3.5}},
	}
	for _, tc := range cases {
		got := ExtractNumbers(tc.text)
		if len(got) != len(tc.want) {
			t.Fatalf("ExtractNumbers(%q) = %v, want %v", tc.text, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("ExtractNumbers(%q) = %v, want %v", tc.text, got, tc.want)
			}
		}
	}
}

func TestValidateAgainstAllowList(t *testing.T) {
	v := testValidator()
	allowed := []float64{5000, 120, 18.0}

	if err := v.Validate("₹5000 tied up across 120 days", allowed); err != nil {
		t.Fatalf("matching text rejected: %v", err)
	}
	if err := v.Validate("This stock represents 18.0% of revenue", allowed); err != nil {
		t.Fatalf("percentage cite rejected: %v", err)
	}

	err := v.Validate("₹5000 plus a surprise ₹7000", allowed)
	if err == nil {
		t.Fatal("fabricated number passed validation")
	}
	if !errors.Is(err, errs.ErrExplanationValidation) {
		t.Fatalf("wrong error type: %v", err)
	}

	if err := v.Validate("all prose, zero figures", allowed); err != nil {
		t.Fatalf("numberless text rejected: %v", err)
	}
}

func TestValidateTolerance(t *testing.T) {
	v := testValidator()

	// Relative: 1% of 5000 = 50.
	if err := v.Validate("about 5049", []float64{5000}); err != nil {
		t.Fatalf("within relative tolerance rejected: %v", err)
	}
	if err := v.Validate("about 5051", []float64{5000}); err == nil {
		t.Fatal("outside relative tolerance accepted")
	}

	// Absolute: rounding 18.04 to 18 is fine even though 1% of 18.04 < 0.5.
	if err := v.Validate("18% margin", []float64{18.04}); err != nil {
		t.Fatalf("within absolute tolerance rejected: %v", err)
	}
	if err := v.Validate("19% margin", []float64{18.04}); err == nil {
		t.Fatal("outside absolute tolerance accepted")
	}
}

func TestBuildContextAllowList(t *testing.T) {
	active := []insights.Candidate{
		{
			InsightID:         "dead_stock_p1",
			Title:             "Dusty Lamp has not sold in 120 days",
			Category:          insights.CategoryRisk,
			Confidence:        insights.ConfidenceHigh,
			SupportingMetrics: map[string]float64{"days_since_last_sale": 120, "estimated_value": 5000},
		},
		{
			InsightID:         "low_margin_p2",
			SupportingMetrics: map[string]float64{"profit_margin": 18.0},
		},
	}
	ec := BuildContext("ds1", active, 35300, 770)

	wantAllowed := map[float64]bool{120: false, 5000: false, 18.0: false, 35300: false, 770: false}
	for _, n := range ec.AllowedNumbers {
		if _, ok := wantAllowed[n]; !ok {
			t.Fatalf("unexpected allow-list value %v", n)
		}
		wantAllowed[n] = true
	}
	for n, seen := range wantAllowed {
		if !seen {
			t.Fatalf("allow-list missing %v (got %v)", n, ec.AllowedNumbers)
		}
	}
	if len(ec.Insights) != 2 {
		t.Fatalf("got %d summaries, want 2", len(ec.Insights))
	}
	if ec.Insights[0].Title == "" || ec.Insights[0].Confidence != insights.ConfidenceHigh {
		t.Fatalf("summary lost fields: %+v", ec.Insights[0])
	}
}

// scriptedGenerator returns its responses in order and counts calls.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, ec Context) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	i := g.calls - 1
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}

func explainConfig() config.Explain {
	return config.Explain{RelativeTolerance: 0.01, AbsoluteTolerance: 0.5, TimeoutSeconds: 5}
}

func TestExplainRetriesValidationExactlyOnce(t *testing.T) {
	ec := Context{DatasetID: "ds1", AllowedNumbers: []float64{5000, 120, 18.0}}

	// First response fabricates a number, retry is clean.
	gen := &scriptedGenerator{responses: []string{
		"₹5000 locked up, plus ₹7000 imagined",
		"₹5000 locked up over 120 days",
	}}
	svc := NewService(gen, explainConfig(), logger.NewNop())
	text, err := svc.Explain(context.Background(), ec)
	if err != nil {
		t.Fatalf("retry should have recovered: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator called %d times, want 2", gen.calls)
	}
	if text != "₹5000 locked up over 120 days" {
		t.Fatalf("unexpected text %q", text)
	}

	// Both attempts invalid: unavailable, exactly two calls, no text.
	gen = &scriptedGenerator{responses: []string{"₹7000", "₹9000"}}
	svc = NewService(gen, explainConfig(), logger.NewNop())
	text, err = svc.Explain(context.Background(), ec)
	if !errors.Is(err, errs.ErrExplanationUnavailable) {
		t.Fatalf("want explanation-unavailable, got %v", err)
	}
	if text != "" {
		t.Fatalf("unvalidated text leaked: %q", text)
	}
	if gen.calls != 2 {
		t.Fatalf("generator called %d times, want exactly 2", gen.calls)
	}
}

func TestExplainTransportFailureSurfacesImmediately(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("connection refused")}
	svc := NewService(gen, explainConfig(), logger.NewNop())
	_, err := svc.Explain(context.Background(), Context{})
	if !errors.Is(err, errs.ErrGeneratorUnavailable) {
		t.Fatalf("want generator-unavailable, got %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("transport failure retried: %d calls", gen.calls)
	}
}

func TestExplainNilGenerator(t *testing.T) {
	svc := NewService(nil, explainConfig(), logger.NewNop())
	if _, err := svc.Explain(context.Background(), Context{}); !errors.Is(err, errs.ErrGeneratorUnavailable) {
		t.Fatalf("want generator-unavailable, got %v", err)
	}
}
