package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle tag of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusReturned   OrderStatus = "RETURNED"
)

// transitions is the set of legal next statuses per current status.
// CANCELLED and RETURNED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReturned},
	StatusCancelled:  {},
	StatusReturned:   {},
}

// ParseOrderStatus validates a raw status string (case-insensitive).
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// CanTransition reports whether moving from current to next is legal.
// Re-applying the current status is allowed so that repeated updates
// stay idempotent.
func CanTransition(current, next OrderStatus) bool {
	if current == next {
		return true
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s OrderStatus) bool {
	return len(transitions[s]) == 0
}

// CanonicalSteps are the three fulfillment milestones shown on the order
// progress indicator, in order.
var CanonicalSteps = [3]OrderStatus{StatusProcessing, StatusShipped, StatusDelivered}

// StepState is one node of the fulfillment progress indicator.
type StepState struct {
	Status OrderStatus `json:"status"`
	Active bool        `json:"active"`
}

// ProgressSteps derives the activation state of the canonical steps for a
// status. A step is active iff its index is at or before the index of the
// current status. Statuses outside the canonical array (PENDING, CANCELLED,
// RETURNED) have no index, so every step is inactive.
func ProgressSteps(current OrderStatus) []StepState {
	idx := -1
	for i, s := range CanonicalSteps {
		if s == current {
			idx = i
			break
		}
	}

	steps := make([]StepState, len(CanonicalSteps))
	for i, s := range CanonicalSteps {
		steps[i] = StepState{Status: s, Active: idx >= 0 && i <= idx}
	}
	return steps
}
