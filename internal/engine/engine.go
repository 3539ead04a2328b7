package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tax-engine/internal/cache"
	"tax-engine/internal/model"
	"tax-engine/internal/tax"
)

var log = logrus.WithField("module", "engine")

// Engine turns calculation requests into responses, caching breakdowns.
type Engine struct {
	calc  *tax.Calculator
	cache cache.Cache
	// keyPrefix identifies the calculator configuration in cache keys.
	keyPrefix string
}

func New(calc *tax.Calculator, c cache.Cache) *Engine {
	if c == nil {
		c = cache.Nop{}
	}
	prefix := fmt.Sprintf("breakdown:%s:%s:%016x", calc.Schedule().Name, calc.Convention(), fingerprint(calc))
	return &Engine{calc: calc, cache: c, keyPrefix: prefix}
}

// fingerprint hashes every input that affects a breakdown, so engines with
// different rates or tables never share cache entries.
func fingerprint(calc *tax.Calculator) uint64 {
	s := calc.Schedule()
	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			h.WriteString(p)
			h.WriteString("|")
		}
	}
	bound := func(n decimal.NullDecimal) string {
		if !n.Valid {
			return "inf"
		}
		return n.Decimal.String()
	}
	write(string(calc.Convention()), s.SuperRate.String())
	for _, b := range s.Brackets {
		write("b", b.Lower.String(), bound(b.Upper), b.BaseTax.String(), b.Rate.String())
	}
	for _, w := range s.Withholding {
		write("w", w.Lower.String(), bound(w.Upper), w.A.String(), w.B.String())
	}
	return h.Sum64()
}

// run tracks timing and outcome around one calculation.
type run struct {
	start    time.Time
	tenantID string
	messages []model.CalculationMessage
	failed   bool
}

func (e *Engine) begin(tenantID string) *run {
	return &run{start: time.Now(), tenantID: tenantID}
}

func (r *run) add(msg model.CalculationMessage) {
	msg.ID = len(r.messages)
	r.messages = append(r.messages, msg)
	if msg.Level == model.LevelCritical {
		r.failed = true
	}
}

// reject records err as a critical message. Validation errors carry their
// batch index; anything else is reported as-is.
func (r *run) reject(err error) {
	msg := model.CalculationMessage{
		Level:   model.LevelCritical,
		Code:    model.CodeInvalidSalary,
		Message: err.Error(),
	}
	var v *tax.ValidationError
	if errors.As(err, &v) && v.Index >= 0 {
		idx := v.Index
		msg.Index = &idx
	}
	r.add(msg)
}

func (e *Engine) finish(r *run, result model.CalculationResult) *model.CalculationResponse {
	elapsed := time.Since(r.start)
	now := time.Now().UTC()

	outcome := model.OutcomeSuccess
	if r.failed {
		outcome = model.OutcomeFailure
		result.Breakdowns = nil
		result.Summary = nil
	}
	result.Messages = r.messages
	if result.Messages == nil {
		result.Messages = []model.CalculationMessage{}
	}
	if result.Breakdowns == nil {
		result.Breakdowns = []model.EmployeeBreakdown{}
	}

	id := uuid.New().String()
	log.WithField("calculation_id", id).Debugf("%s in %s with %d messages", outcome, elapsed, len(result.Messages))

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          id,
			TenantID:               r.tenantID,
			ScheduleName:           e.calc.Schedule().Name,
			Convention:             string(e.calc.Convention()),
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: result,
	}
}

// Breakdown computes one employee.
func (e *Engine) Breakdown(ctx context.Context, req *model.BreakdownRequest) *model.CalculationResponse {
	r := e.begin(req.TenantID)
	if req.WeeklySalary == nil {
		r.add(model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    model.CodeMissingSalary,
			Message: "weekly_salary is required",
		})
		return e.finish(r, model.CalculationResult{})
	}

	amounts, err := tax.Amounts([]float64{*req.WeeklySalary})
	if err != nil {
		r.reject(err)
		return e.finish(r, model.CalculationResult{})
	}
	b, err := e.breakdown(ctx, amounts[0])
	if err != nil {
		r.reject(err)
		return e.finish(r, model.CalculationResult{})
	}
	return e.finish(r, model.CalculationResult{
		Breakdowns: []model.EmployeeBreakdown{toBreakdown(b)},
	})
}

// Batch computes every salary in order and summarises them. The first
// invalid salary fails the batch without partial results.
func (e *Engine) Batch(ctx context.Context, req *model.BatchRequest) *model.CalculationResponse {
	r := e.begin(req.TenantID)

	amounts, err := tax.Amounts(req.WeeklySalaries)
	if err != nil {
		r.reject(err)
		return e.finish(r, model.CalculationResult{})
	}
	if len(amounts) == 0 {
		r.add(model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    model.CodeEmptyBatch,
			Message: "No salaries supplied; summary is empty",
		})
	}

	batch, err := e.calc.BatchFunc(amounts, func(a decimal.Decimal) (tax.EmployeeBreakdown, error) {
		return e.breakdown(ctx, a)
	})
	if err != nil {
		r.reject(err)
		return e.finish(r, model.CalculationResult{})
	}

	summary := toSummary(batch.Summary)
	return e.finish(r, model.CalculationResult{
		Breakdowns: toBreakdowns(batch.Breakdowns),
		Summary:    &summary,
	})
}

// breakdown serves from the cache when it can. Cache failures never fail
// the calculation.
func (e *Engine) breakdown(ctx context.Context, weekly decimal.Decimal) (tax.EmployeeBreakdown, error) {
	if weekly.IsNegative() {
		return e.calc.Breakdown(weekly)
	}

	key := e.cacheKey(weekly)
	if raw, ok := e.cache.Get(ctx, key); ok {
		var b tax.EmployeeBreakdown
		err := json.Unmarshal(raw, &b)
		if err == nil {
			return b, nil
		}
		log.Warnf("discarding cached breakdown %s: %v", key, err)
	}

	b, err := e.calc.Breakdown(weekly)
	if err != nil {
		return tax.EmployeeBreakdown{}, err
	}
	if raw, err := json.Marshal(b); err != nil {
		log.Warnf("encode breakdown %s: %v", key, err)
	} else if err := e.cache.Set(ctx, key, raw); err != nil {
		log.Warnf("cache breakdown %s: %v", key, err)
	}
	return b, nil
}

func (e *Engine) cacheKey(weekly decimal.Decimal) string {
	return e.keyPrefix + ":" + weekly.String()
}

// BracketInfo reports which annual bracket income falls into.
func (e *Engine) BracketInfo(income float64) (model.BracketInfo, error) {
	amounts, err := tax.Amounts([]float64{income})
	if err != nil {
		return model.BracketInfo{}, err
	}
	info, err := e.calc.Schedule().BracketFor(amounts[0])
	if err != nil {
		return model.BracketInfo{}, err
	}
	return model.BracketInfo{
		AnnualIncome: income,
		Number:       info.Number,
		Range:        info.Range,
		MarginalRate: info.Rate.InexactFloat64(),
	}, nil
}

// Schedule describes the active tables.
func (e *Engine) Schedule() model.Schedule {
	return toSchedule(e.calc.Schedule(), e.calc.Convention())
}
