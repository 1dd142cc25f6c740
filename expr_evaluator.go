package transfer

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const exprEngine = "expr"

// ExprEvaluatorOption configures the expr engine.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache shares compiled programs through cache.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes a copy of registry's helpers as native
// expr functions.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.functions = registry.Clone()
	}
}

type exprEvaluator struct {
	cache     ProgramCache
	functions *FunctionRegistry
}

// NewExprEvaluator returns the expr-lang/expr engine, the default for
// CompilePredicate. Unknown identifiers evaluate to nil so a binder may omit
// fields.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError(exprEngine, ErrEmptyExpression)
	}
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return exprRule{program: program, expression: expression}, nil
}

func (e *exprEvaluator) program(expression string) (*exprvm.Program, error) {
	key := exprEngine + ":" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}

	options := []exprlang.Option{exprlang.AllowUndefinedVariables()}
	for _, name := range e.functions.Names() {
		fn, _ := e.functions.Lookup(name)
		options = append(options, exprlang.Function(name, fn))
	}
	if e.functions != nil {
		options = append(options, exprlang.Function("call", e.call))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError(exprEngine, expression, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

// call backs call(name, args...) for parity with the other engines.
func (e *exprEvaluator) call(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, ErrUnknownFunction
	}
	name, _ := args[0].(string)
	return e.functions.Call(name, args[1:]...)
}

type exprRule struct {
	program    *exprvm.Program
	expression string
}

func (r exprRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	env := make(map[string]any, len(ctx.Bindings)+1)
	for key, value := range ctx.Bindings {
		env[key] = value
	}
	env["args"] = ctx.Args
	result, err := exprlang.Run(r.program, env)
	if err != nil {
		return nil, wrapEvaluationError(exprEngine, r.expression, err)
	}
	return result, nil
}
