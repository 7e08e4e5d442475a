package validator

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/formkit/pkg/async"
)

// Evaluation is the outcome of running a rule list against one value.
// Synchronous results are known immediately; asynchronous ones settle later.
type Evaluation struct {
	rules   []Rule
	results []*ValidationError
	futures []*async.Future[*ValidationError]
	pending int
	done    chan struct{}
}

// Evaluate runs every rule in declaration order without short-circuiting.
// Async rules are dispatched on ctx; a panic in any rule becomes a generic
// ValidationError whose Cause matches ErrValidatorFailed.
func Evaluate(ctx context.Context, field string, value any, kind Kind, rules []Rule) *Evaluation {
	ev := &Evaluation{
		rules:   rules,
		results: make([]*ValidationError, len(rules)),
		futures: make([]*async.Future[*ValidationError], len(rules)),
		done:    make(chan struct{}),
	}

	for i, rule := range rules {
		in := Input{
			Field: field,
			Value: value,
			Kind:  kind,
			Args:  rule.Args,
			State: rule.state,
		}

		if !rule.Async {
			ev.results[i] = runSafely(ctx, rule, in)
			continue
		}

		ev.pending++
		ev.futures[i] = async.Async(ctx, in, func(ctx context.Context, in Input) (*ValidationError, error) {
			return runSafely(ctx, rule, in), nil
		})
	}

	if ev.pending == 0 {
		close(ev.done)
		return ev
	}

	go func() {
		defer close(ev.done)
		for i, f := range ev.futures {
			if f == nil {
				continue
			}
			res, err := f.Await()
			if err != nil {
				// Only a cancelled context lands here; the result is stale anyway.
				res = failure(rules[i], field, err)
			}
			ev.results[i] = res
		}
	}()

	return ev
}

// HasAsync reports whether any async rule was dispatched. Unlike Pending it
// does not change once Evaluate returns.
func (e *Evaluation) HasAsync() bool {
	return e.pending > 0
}

// Pending reports whether async rules were dispatched and have not all settled.
func (e *Evaluation) Pending() bool {
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// Done is closed once every rule has settled.
func (e *Evaluation) Done() <-chan struct{} {
	return e.done
}

// Errors returns the errors known so far, in declaration order. Before Done
// this only includes synchronous rules.
func (e *Evaluation) Errors() ValidationErrors {
	if e.Pending() {
		return e.SyncErrors()
	}
	return e.collect()
}

// SyncErrors returns the errors of synchronous rules only, in declaration
// order. It is safe to call while async rules are still running.
func (e *Evaluation) SyncErrors() ValidationErrors {
	var out ValidationErrors
	for i, rule := range e.rules {
		if !rule.Async && e.results[i] != nil {
			out = append(out, *e.results[i])
		}
	}
	return out
}

// Wait blocks until all rules settle or ctx is done and returns the full,
// ordered error set.
func (e *Evaluation) Wait(ctx context.Context) (ValidationErrors, error) {
	select {
	case <-e.done:
		return e.collect(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Evaluation) collect() ValidationErrors {
	var out ValidationErrors
	for _, res := range e.results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}

func runSafely(ctx context.Context, rule Rule, in Input) (res *ValidationError) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(rule, in.Field, fmt.Errorf("%w: panic: %v", ErrValidatorFailed, r))
		}
	}()

	res = rule.check(ctx, in)
	if res != nil {
		if res.Field == "" {
			res.Field = in.Field
		}
		if res.Rule == "" {
			res.Rule = rule.Name
		}
	}
	return res
}

func failure(rule Rule, field string, cause error) *ValidationError {
	if !errors.Is(cause, ErrValidatorFailed) {
		cause = fmt.Errorf("%w: %w", ErrValidatorFailed, cause)
	}
	return &ValidationError{
		Field:          field,
		Rule:           rule.Name,
		Message:        "could not be validated",
		TranslationKey: "validation.failed",
		TranslationValues: map[string]any{
			"field": field,
			"rule":  rule.Name,
		},
		Cause: cause,
	}
}
