package transfer

// Move transfers up to maxAmount of the first resource in from accepted by
// filter into to. The amount is negotiated with Simulate on both sides
// before anything is committed; with Act the filtered extract and the insert
// run inside a transaction and are rolled back unless both commit exactly the
// negotiated amount.
// Move returns the resource that was, or would be, moved.
func Move[T any](from, to View[T], filter Predicate[T], maxAmount int64, action Action) T {
	blank := from.Blank()
	if maxAmount <= 0 {
		return blank
	}

	offered := from.ExtractMatching(filter, maxAmount, Simulate)
	if from.Amount(offered) <= 0 {
		return blank
	}
	accepted := to.Insert(offered, Simulate)
	if accepted <= 0 {
		return blank
	}
	if action == Simulate {
		return from.CopyWithAmount(offered, accepted)
	}

	moved := blank
	_ = Atomically(Act, func(*Transaction) error {
		taken := from.ExtractMatching(filter, accepted, Act)
		if from.Amount(taken) != accepted {
			return errMoveAborted
		}
		if inserted := to.Insert(taken, Act); inserted != accepted {
			return errMoveAborted
		}
		moved = taken
		return nil
	}, from, to)
	return moved
}

// MoveAll repeats Move until nothing more moves or maxAmount is reached. It
// returns the total amount moved. With Simulate the moves run inside a
// simulated transaction that is always rolled back; observed participants
// report them as simulated and emit no activity.
func MoveAll[T any](from, to View[T], filter Predicate[T], maxAmount int64, action Action) int64 {
	if action == Simulate {
		var total int64
		_ = Atomically(Simulate, func(*Transaction) error {
			total = MoveAll(from, to, filter, maxAmount, Act)
			return nil
		}, from, to)
		return total
	}

	var total int64
	for total < maxAmount {
		moved := from.Amount(Move(from, to, filter, maxAmount-total, Act))
		if moved <= 0 {
			break
		}
		total += moved
	}
	return total
}
