package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"food-delivery-admin/models"
)

// Actors that can move a conversation.
const (
	ActorOperator = "operator"
	ActorSystem   = "system"
)

var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change, who can perform it and the
// closedReason it records
type Transition struct {
	From   models.ChatState `json:"from"`
	To     models.ChatState `json:"to"`
	Actor  string           `json:"actor"`
	Reason string           `json:"closedReason"`
}

// validTransitions is the authoritative conversation lifecycle
var validTransitions = []Transition{
	// Operator presses "End Chat"
	{From: models.ChatActive, To: models.ChatEnded, Actor: ActorOperator, Reason: models.ClosedManual},
	// Inactivity sweep closes an idle conversation
	{From: models.ChatActive, To: models.ChatEnded, Actor: ActorSystem, Reason: models.ClosedTimeout},
}

type transitionKey struct {
	From  models.ChatState
	To    models.ChatState
	Actor string
}

var transitionMap = func() map[transitionKey]Transition {
	m := make(map[transitionKey]Transition)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = t
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(state models.ChatState) []models.ChatState {
	var nexts []models.ChatState
	seen := map[models.ChatState]bool{}
	for _, t := range validTransitions {
		if t.From == state && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
// and returns the matching transition.
func CanTransition(from, to models.ChatState, actor string) (Transition, error) {
	if t, ok := transitionMap[transitionKey{From: from, To: to, Actor: actor}]; ok {
		return t, nil
	}
	return Transition{}, fmt.Errorf("%w: %s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		ErrInvalidTransition, from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(state models.ChatState) string {
	nexts := ValidTransitionsFrom(state)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
