package order

// TransitionPolicy decides whether an order may move between two
// fulfillment states. The lifecycle tracker consults it on every
// order_status change, so swapping in a stricter table never touches
// callers.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// AnyTransition permits every state pair, including moves out of
// terminal states. This is the default: admins correct data entry
// mistakes directly, and the documented ordering is advisory only.
type AnyTransition struct{}

// Allow always returns true.
func (AnyTransition) Allow(_, _ Status) bool { return true }

// StrictTransitions enforces the documented happy path:
// Processing -> Confirmed -> Shipped -> Delivered, with Cancelled
// reachable from any non-terminal state.
type StrictTransitions struct{}

// Allow reports whether the documented table permits the move.
func (StrictTransitions) Allow(from, to Status) bool {
	switch from {
	case StatusProcessing:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered || to == StatusCancelled
	case StatusDelivered, StatusCancelled:
		return false
	default:
		return false
	}
}
