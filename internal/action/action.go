// Package action models row actions as explicit values carrying a record
// identifier, and gates destructive ones behind a confirmation step.
package action

import (
	"context"
	"errors"
	"fmt"

	"kmadmin/internal/logger"
	"kmadmin/internal/model"
)

// Verb is what a row action does.
type Verb int

const (
	Modify Verb = iota
	Delete
)

func (v Verb) String() string {
	switch v {
	case Modify:
		return "modify"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("verb(%d)", int(v))
	}
}

// Action is a dispatched row action. It carries the record's identifier
// rather than the record itself; handlers look the record up.
type Action struct {
	Verb Verb
	Kind model.Kind
	ID   string
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s %q", a.Verb, a.Kind, a.ID)
}

// Destructive reports whether the action must pass a confirmation gate.
func (a Action) Destructive() bool {
	return a.Verb == Delete
}

// Row returns the standard modify + delete pair for one record.
func Row(kind model.Kind, id string) []Action {
	return []Action{
		{Verb: Modify, Kind: kind, ID: id},
		{Verb: Delete, Kind: kind, ID: id},
	}
}

// HasRowActions reports whether records of kind can be modified and
// deleted. Clusters and partitions are read-only.
func HasRowActions(kind model.Kind) bool {
	switch kind {
	case model.KindUser, model.KindFile, model.KindConfig:
		return true
	default:
		return false
	}
}

// Find returns the first action with the given verb.
func Find(actions []Action, verb Verb) (Action, bool) {
	for _, a := range actions {
		if a.Verb == verb {
			return a, true
		}
	}
	return Action{}, false
}

// DefaultPrompt is shown before every delete.
const DefaultPrompt = "Are you sure you want to delete?"

// ErrNoConfirmer is returned when a destructive action has no gate.
var ErrNoConfirmer = errors.New("action: destructive action requires a confirmer")

// Confirmer asks the user to approve a destructive action. It blocks until
// the user answers or ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Always returns a Confirmer with a fixed answer, for callers whose user
// already confirmed out of band (e.g. --yes).
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return answer, nil })
}

// DeleteFunc removes the record identified by id.
type DeleteFunc func(ctx context.Context, id string) error

// Outcome is the result of a gated delete.
type Outcome int

const (
	OutcomeDeclined Outcome = iota
	OutcomeDeleted
)

// ConfirmDelete asks c for approval and calls del exactly once when the
// answer is yes. A declined confirmation is not an error. The deleter's
// error is returned wrapped and is never retried.
func ConfirmDelete(ctx context.Context, c Confirmer, prompt, id string, del DeleteFunc) (Outcome, error) {
	if c == nil {
		return OutcomeDeclined, ErrNoConfirmer
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	log := logger.FromContext(ctx).WithValues("id", id)

	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return OutcomeDeclined, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		log.V(1).Info("delete declined")
		return OutcomeDeclined, nil
	}

	if err := del(ctx, id); err != nil {
		log.Error(err, "delete failed")
		return OutcomeDeclined, fmt.Errorf("failed to delete %q: %w", id, err)
	}
	log.Info("record deleted")
	return OutcomeDeleted, nil
}
