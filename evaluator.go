package transfer

// RuleContext carries the inputs of one expression evaluation. Bindings are
// exposed as top-level variables; Args is reachable as `args`.
type RuleContext struct {
	Bindings map[string]any
	Args     map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Bindings == nil {
		ctx.Bindings = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// EngineName reports which engine backs e.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if jsEvaluatorMatches(e) {
			return "js"
		}
		return "custom"
	}
}
