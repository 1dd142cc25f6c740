package transfer

import "fmt"

// Binder exposes the attributes of a resource to an expression. The returned
// map becomes the top-level bindings; "amount" is always bound from Kind.
type Binder[T any] func(resource T) map[string]any

// PredicateErrorHandler receives evaluation failures and non-boolean results.
type PredicateErrorHandler func(expression string, err error)

type predicateConfig struct {
	args    map[string]any
	onError PredicateErrorHandler
}

// PredicateOption configures CompilePredicate.
type PredicateOption func(*predicateConfig)

// WithPredicateArgs exposes args to the expression as `args`.
func WithPredicateArgs(args map[string]any) PredicateOption {
	return func(cfg *predicateConfig) {
		cfg.args = args
	}
}

// WithPredicateErrorHandler installs a handler for evaluation failures.
func WithPredicateErrorHandler(handler PredicateErrorHandler) PredicateOption {
	return func(cfg *predicateConfig) {
		cfg.onError = handler
	}
}

// CompilePredicate compiles expression into a Predicate. A nil evaluator
// selects the expr engine. Compilation errors are returned eagerly; at test
// time any failure or non-boolean result rejects the resource.
func CompilePredicate[T any](evaluator Evaluator, expression string, kind Kind[T], bind Binder[T], opts ...PredicateOption) (Predicate[T], error) {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	cfg := predicateConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	engine := EngineName(evaluator)
	return func(resource T) bool {
		bindings := map[string]any{}
		if bind != nil {
			for key, value := range bind(resource) {
				bindings[key] = value
			}
		}
		bindings["amount"] = kind.Amount(resource)
		result, err := rule.Evaluate(RuleContext{Bindings: bindings, Args: cfg.args})
		if err != nil {
			cfg.report(expression, err)
			return false
		}
		ok, isBool := result.(bool)
		if !isBool {
			cfg.report(expression, &EvaluationError{
				Engine: engine,
				Expr:   expression,
				Err:    fmt.Errorf("%w: got %T", ErrNonBooleanResult, result),
			})
			return false
		}
		return ok
	}, nil
}

func (cfg predicateConfig) report(expression string, err error) {
	if cfg.onError != nil {
		cfg.onError(expression, err)
	}
}
