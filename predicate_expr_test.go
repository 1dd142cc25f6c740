package transfer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []ExprEvaluatorOption{}
			if cache != nil {
				opts = append(opts, ExprWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, ExprWithFunctionRegistry(registry))
			}
			return NewExprEvaluator(opts...)
		},
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []CELEvaluatorOption{}
			if cache != nil {
				opts = append(opts, CELWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, CELWithFunctionRegistry(registry))
			}
			return NewCELEvaluator(opts...)
		},
	},
	{
		name: "js",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			opts := []JSEvaluatorOption{}
			if cache != nil {
				opts = append(opts, JSWithProgramCache(cache))
			}
			if registry != nil {
				opts = append(opts, JSWithFunctionRegistry(registry))
			}
			return NewJSEvaluator(opts...)
		},
	},
}

func stackBinder(s stack) map[string]any {
	tags := make([]any, 0, len(s.Tags))
	for _, tag := range s.Tags {
		tags = append(tags, tag)
	}
	return map[string]any{"variant": s.Variant, "tags": tags}
}

func TestCompilePredicateAcrossEvaluators(t *testing.T) {
	cases := []struct {
		name  string
		rule  string
		input stack
		want  bool
	}{
		{name: "variant match", rule: `variant == "iron" && amount >= 10`, input: items("iron", 12), want: true},
		{name: "amount too small", rule: `variant == "iron" && amount >= 10`, input: items("iron", 9), want: false},
		{name: "other variant", rule: `variant == "iron" && amount >= 10`, input: items("gold", 64), want: false},
	}

	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, nil)
			if evaluator == nil {
				t.Skip("engine not built in")
			}
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					predicate, err := CompilePredicate[stack](evaluator, tc.rule, stackKind{}, stackBinder)
					if err != nil {
						t.Fatalf("compile: %v", err)
					}
					if got := predicate(tc.input); got != tc.want {
						t.Fatalf("predicate(%v) = %v, want %v", tc.input, got, tc.want)
					}
				})
			}
		})
	}
}

func TestCompiledPredicateDrivesExtraction(t *testing.T) {
	handler := CombineSingles[stack](stackKind{},
		newSingle(64, WithInitial(items("iron", 3))),
		newSingle(64, WithInitial(items("iron", 30))),
	)
	predicate, err := CompilePredicate[stack](nil, `amount > args.minimum`, stackKind{}, nil,
		WithPredicateArgs(map[string]any{"minimum": 10}))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := handler.ExtractMatching(predicate, 64, Act)
	if got.Count != 30 {
		t.Fatalf("expected the 30 stack, got %v", got)
	}
}

func TestCompilePredicateNonBooleanRejects(t *testing.T) {
	var reported []error
	predicate, err := CompilePredicate[stack](NewExprEvaluator(), `amount * 2`, stackKind{}, nil,
		WithPredicateErrorHandler(func(_ string, err error) { reported = append(reported, err) }))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if predicate(items("iron", 1)) {
		t.Fatalf("non-boolean result must reject")
	}
	if len(reported) != 1 || !errors.Is(reported[0], ErrNonBooleanResult) {
		t.Fatalf("expected non-boolean report, got %v", reported)
	}
	var evalErr *EvaluationError
	if !errors.As(reported[0], &evalErr) || evalErr.Engine != "expr" {
		t.Fatalf("expected evaluation error metadata, got %v", reported[0])
	}
}

func TestCompilePredicateErrors(t *testing.T) {
	if _, err := CompilePredicate[stack](NewExprEvaluator(), "", stackKind{}, nil); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected empty expression error, got %v", err)
	}
	if _, err := CompilePredicate[stack](NewExprEvaluator(), "amount >", stackKind{}, nil); err == nil {
		t.Fatalf("expected syntax error")
	}
}

type countingCache struct {
	store  map[string]any
	hits   int
	misses int
}

func (c *countingCache) Get(key string) (any, bool) {
	value, ok := c.store[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return value, ok
}

func (c *countingCache) Set(key string, value any) {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = value
}

func TestEvaluatorProgramCache(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			cache := &countingCache{}
			evaluator := factory.new(cache, nil)
			if evaluator == nil {
				t.Skip("engine not built in")
			}
			ctx := RuleContext{Bindings: map[string]any{"amount": int64(5)}}
			for i := 0; i < 3; i++ {
				result, err := evaluator.Evaluate(ctx, "amount > 1")
				if err != nil {
					t.Fatalf("iteration %d: %v", i, err)
				}
				if result != true {
					t.Fatalf("iteration %d: expected true, got %v", i, result)
				}
			}
			if cache.misses != 1 || cache.hits != 2 {
				t.Fatalf("expected 1 miss and 2 hits, got %d and %d", cache.misses, cache.hits)
			}
		})
	}
}

func TestCustomFunctionsAcrossEvaluators(t *testing.T) {
	rules := map[string]string{
		"expr": `equalsIgnoreCase(variant, "IRON")`,
		"cel":  `call("equalsIgnoreCase", [variant, "IRON"]) == true`,
		"js":   `call("equalsIgnoreCase", variant, "IRON")`,
	}
	registry := NewFunctionRegistry()
	if err := registry.Register("equalsIgnoreCase", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("equalsIgnoreCase expects 2 args")
		}
		a, _ := args[0].(string)
		b, _ := args[1].(string)
		return strings.EqualFold(a, b), nil
	}); err != nil {
		t.Fatalf("register equalsIgnoreCase: %v", err)
	}

	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			evaluator := factory.new(nil, registry)
			if evaluator == nil {
				t.Skip("engine not built in")
			}
			predicate, err := CompilePredicate[stack](evaluator, rules[factory.name], stackKind{}, stackBinder)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if !predicate(items("iron", 1)) || predicate(items("gold", 1)) {
				t.Fatalf("custom function predicate misbehaves")
			}
		})
	}
}

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	double := func(args ...any) (any, error) { return args[0].(int) * 2, nil }
	if err := registry.Register("Double", double); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("double", double); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register("", double); err == nil {
		t.Fatalf("expected empty name error")
	}
	result, err := registry.Call("DOUBLE", 4)
	if err != nil || result != 8 {
		t.Fatalf("call: %v, %v", result, err)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}
	clone := registry.Clone()
	_ = clone.Register("triple", double)
	if len(registry.Names()) != 1 || len(clone.Names()) != 2 {
		t.Fatalf("clone should be independent: %v / %v", registry.Names(), clone.Names())
	}
}

func TestEngineName(t *testing.T) {
	if EngineName(NewExprEvaluator()) != "expr" || EngineName(NewCELEvaluator()) != "cel" {
		t.Fatalf("unexpected engine names")
	}
	if EngineName(nil) != "unknown" {
		t.Fatalf("expected unknown for nil")
	}
}

func TestStandardFunctions(t *testing.T) {
	functions := StandardFunctions()
	if names := functions.Names(); len(names) != 2 || names[0] != "hasTag" || names[1] != "oneOf" {
		t.Fatalf("unexpected standard names %v", names)
	}
	if _, err := functions.Call("nope"); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected unknown function error, got %v", err)
	}
	if err := functions.Register("HASTAG", hasTag); !errors.Is(err, ErrDuplicateFunction) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	cases := []struct {
		args   []any
		expect bool
	}{
		{args: []any{map[string]any{"enchant": "fire"}, "enchant"}, expect: true},
		{args: []any{map[string]any{"enchant": "fire"}, "enchant", "ice"}, expect: false},
		{args: []any{map[string]string{"enchant": "fire"}, "enchant", "fire"}, expect: true},
		{args: []any{[]any{"blessed"}, "blessed"}, expect: true},
		{args: []any{[]string{"blessed"}, "cursed"}, expect: false},
		{args: []any{nil, "blessed"}, expect: false},
	}
	for _, tc := range cases {
		got, err := functions.Call("hasTag", tc.args...)
		if err != nil || got != tc.expect {
			t.Fatalf("hasTag(%v) = %v, %v; want %v", tc.args, got, err, tc.expect)
		}
	}
	if _, err := functions.Call("hasTag", 42, "x"); err == nil {
		t.Fatalf("expected unsupported tags error")
	}

	predicate, err := CompilePredicate[stack](NewExprEvaluator(ExprWithFunctionRegistry(functions)),
		`hasTag(tags, "blessed") && oneOf(variant, "iron", "gold")`, stackKind{}, stackBinder)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !predicate(items("gold", 1, "blessed")) || predicate(items("gold", 1)) || predicate(items("coal", 1, "blessed")) {
		t.Fatalf("standard function predicate misbehaves")
	}
}
