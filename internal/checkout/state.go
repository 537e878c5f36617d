package checkout

// State is a step of the checkout flow.
type State string

const (
	StateShippingInfo  State = "shipping-info"
	StatePaymentMethod State = "payment-method"
	StateReview        State = "review"
	StateCompleted     State = "completed"
)

// Event is a user action that may move the flow to another step.
type Event string

const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventSubmit Event = "submit"
)

// transitions lists every legal move. A (state, event) pair missing from
// the table is rejected; Completed has no way out.
var transitions = map[State]map[Event]State{
	StateShippingInfo: {
		EventNext: StatePaymentMethod,
	},
	StatePaymentMethod: {
		EventNext: StateReview,
		EventBack: StateShippingInfo,
	},
	StateReview: {
		EventBack:   StatePaymentMethod,
		EventSubmit: StateCompleted,
	},
	StateCompleted: {},
}

// target returns the state reached from s on e.
func (s State) target(e Event) (State, bool) {
	to, ok := transitions[s][e]
	return to, ok
}

// Terminal reports whether no event can leave s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Step returns the 1-based position of s in the flow, as shown to shoppers.
func (s State) Step() int {
	switch s {
	case StateShippingInfo:
		return 1
	case StatePaymentMethod:
		return 2
	case StateReview:
		return 3
	case StateCompleted:
		return 4
	default:
		return 0
	}
}
