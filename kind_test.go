package transfer

import (
	"fmt"
	"slices"
)

type stack struct {
	Variant string
	Count   int64
	Tags    []string
}

func (s stack) String() string {
	if s.Count <= 0 {
		return "empty"
	}
	return fmt.Sprintf("%dx %s", s.Count, s.Variant)
}

type stackKind struct{}

func (stackKind) Amount(s stack) int64 { return s.Count }

func (stackKind) SameVariant(a, b stack) bool {
	return a.Variant == b.Variant && slices.Equal(a.Tags, b.Tags)
}

func (stackKind) Blank() stack { return stack{} }

func (stackKind) CopyWithAmount(s stack, amount int64) stack {
	if amount <= 0 {
		return stack{}
	}
	return stack{Variant: s.Variant, Count: amount, Tags: slices.Clone(s.Tags)}
}

func items(variant string, count int64, tags ...string) stack {
	return stack{Variant: variant, Count: count, Tags: tags}
}

func newSingle(capacity int64, opts ...SingleOption[stack]) *SimpleSingle[stack] {
	return NewSimpleSingle[stack](stackKind{}, capacity, opts...)
}

func slotsOf(h Handler[stack]) []stack {
	var out []stack
	for resource := range Resources(h) {
		out = append(out, resource)
	}
	return out
}
