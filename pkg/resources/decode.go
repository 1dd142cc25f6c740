package resources

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-transfer/internal/hydrate"
)

var (
	// ErrMissingID reports a non-empty payload without an id.
	ErrMissingID = errors.New("resources: id required")
	// ErrNegativeAmount reports a payload with a negative quantity.
	ErrNegativeAmount = errors.New("resources: amount must not be negative")
)

// DecodeItems hydrates item stacks from loosely typed payloads. "amount" is
// accepted as an alias for "count".
func DecodeItems(source string, payloads []map[string]any) ([]Item, error) {
	decoder := hydrate.NewDecoder(
		hydrate.WithAlias[Item]("amount", "count"),
		hydrate.WithCheck[Item](validateItem),
		hydrate.Strict[Item](),
	)
	return decoder.DecodeAll(source, payloads)
}

// DecodeFluids hydrates fluids from loosely typed payloads. "buckets" is
// accepted in place of a milli-unit "amount".
func DecodeFluids(source string, payloads []map[string]any) ([]Fluid, error) {
	decoder := hydrate.NewDecoder(
		hydrate.WithRewrite[Fluid](bucketsToAmount),
		hydrate.WithCheck[Fluid](validateFluid),
		hydrate.Strict[Fluid](),
	)
	return decoder.DecodeAll(source, payloads)
}

func bucketsToAmount(_ hydrate.Position, payload map[string]any) (map[string]any, error) {
	value, ok := payload["buckets"]
	if !ok {
		return payload, nil
	}
	if _, exists := payload["amount"]; exists {
		return nil, fmt.Errorf(`%w: "buckets" and "amount"`, hydrate.ErrAliasConflict)
	}
	buckets, ok := value.(float64)
	if !ok {
		return nil, fmt.Errorf("resources: buckets must be numeric, got %T", value)
	}
	delete(payload, "buckets")
	payload["amount"] = int64(buckets * float64(MilliPerBucket))
	return payload, nil
}

func validateItem(_ hydrate.Position, item *Item) error {
	if item.Count < 0 {
		return ErrNegativeAmount
	}
	if item.Count > 0 && item.ID == "" {
		return ErrMissingID
	}
	if item.Count == 0 {
		*item = Item{}
	}
	return nil
}

func validateFluid(_ hydrate.Position, fluid *Fluid) error {
	if fluid.Amount < 0 {
		return ErrNegativeAmount
	}
	if fluid.Amount > 0 && fluid.ID == "" {
		return ErrMissingID
	}
	if fluid.Amount == 0 {
		*fluid = Fluid{}
	}
	return nil
}
