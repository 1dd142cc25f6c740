package resources

import (
	"fmt"
	"maps"

	transfer "github.com/goliatone/go-transfer"
)

// MilliPerBucket is the number of fluid units in one bucket.
const MilliPerBucket int64 = 1000

// Fluid is a volume of one fluid variant measured in milli-units.
type Fluid struct {
	ID     string            `json:"id"`
	Amount int64             `json:"amount"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// NewFluid returns amount milli-units of id.
func NewFluid(id string, amount int64, tags map[string]string) Fluid {
	return Fluid{ID: id, Amount: amount, Tags: maps.Clone(tags)}
}

// Buckets returns n buckets of id.
func Buckets(id string, n int64) Fluid {
	return Fluid{ID: id, Amount: n * MilliPerBucket}
}

// IsEmpty reports whether the volume is zero.
func (f Fluid) IsEmpty() bool { return f.Amount <= 0 }

func (f Fluid) String() string {
	if f.IsEmpty() {
		return "empty"
	}
	if len(f.Tags) == 0 {
		return fmt.Sprintf("%dmB %s", f.Amount, f.ID)
	}
	return fmt.Sprintf("%dmB %s{%s}", f.Amount, f.ID, formatTags(f.Tags))
}

// FluidKind implements transfer.Kind for Fluid.
type FluidKind struct{}

var _ transfer.Kind[Fluid] = FluidKind{}

func (FluidKind) Amount(resource Fluid) int64 { return resource.Amount }

func (FluidKind) SameVariant(a, b Fluid) bool {
	return a.ID == b.ID && maps.Equal(a.Tags, b.Tags)
}

func (FluidKind) Blank() Fluid { return Fluid{} }

func (FluidKind) CopyWithAmount(resource Fluid, amount int64) Fluid {
	if amount <= 0 {
		return Fluid{}
	}
	return Fluid{ID: resource.ID, Amount: amount, Tags: maps.Clone(resource.Tags)}
}

// FluidBinder exposes id, millis, buckets and tags to expression predicates.
func FluidBinder(resource Fluid) map[string]any {
	tags := make(map[string]any, len(resource.Tags))
	for key, value := range resource.Tags {
		tags[key] = value
	}
	return map[string]any{
		"id":      resource.ID,
		"millis":  resource.Amount,
		"buckets": resource.Amount / MilliPerBucket,
		"tags":    tags,
	}
}

// FluidID accepts volumes of id regardless of tags.
func FluidID(id string) transfer.Predicate[Fluid] {
	return func(resource Fluid) bool { return resource.ID == id }
}
