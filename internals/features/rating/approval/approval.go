// file: internals/features/rating/approval/approval.go
//
// Package approval implements the pending/approved/rejected lifecycle shared
// by rating templates and customer assessments. Each entity supplies a
// Policy; the transition rules live here once.
package approval

import (
	"strings"

	"creditrating_backend/internals/helpers/apperror"
)

/* =======================
   Status & action
======================= */

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ParseAction accepts both verb and status spellings ("approve"/"approved").
func ParseAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approve", "approved":
		return ActionApprove, nil
	case "reject", "rejected":
		return ActionReject, nil
	}
	return "", apperror.Validation("action must be approve or reject")
}

// Target is the status an action leads to.
func (a Action) Target() Status {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

/* =======================
   Machine
======================= */

// Approvable is any entity carrying an approval status.
type Approvable interface {
	ApprovalState() Status
}

type Policy struct {
	// Entity is used in error messages ("template", "assessment").
	Entity string
	// DecideFrom lists the states that accept approve/reject.
	DecideFrom []Status
	// RejectRedundant turns a decision equal to the current status into a
	// state error instead of a refresh.
	RejectRedundant bool
	// EditableFrom lists the states that accept content edits. Empty means
	// any state.
	EditableFrom []Status
	// RemarksLabel names the free-text field required on rejection.
	RemarksLabel string
}

type Machine[T Approvable] struct {
	policy Policy
}

func New[T Approvable](p Policy) Machine[T] {
	if p.Entity == "" {
		p.Entity = "record"
	}
	if p.RemarksLabel == "" {
		p.RemarksLabel = "remarks"
	}
	return Machine[T]{policy: p}
}

func (m Machine[T]) Policy() Policy { return m.policy }

// Transition describes an accepted decision.
type Transition struct {
	From    Status
	To      Status
	Action  Action
	Remarks string
}

// Decide validates an approve/reject on subject. Rejection needs non-empty
// remarks; the remarks check runs before any state check so a bad request is
// always reported as a validation failure.
func (m Machine[T]) Decide(subject T, action Action, remarks string) (Transition, error) {
	remarks = strings.TrimSpace(remarks)
	if action != ActionApprove && action != ActionReject {
		return Transition{}, apperror.Validation("action must be approve or reject")
	}
	if action == ActionReject && remarks == "" {
		return Transition{}, apperror.Validation("%s are required when rejecting a %s", m.policy.RemarksLabel, m.policy.Entity)
	}

	from := subject.ApprovalState()
	to := action.Target()

	if from == to && m.policy.RejectRedundant {
		return Transition{}, apperror.State("%s is already %s", m.policy.Entity, to)
	}
	if !contains(m.policy.DecideFrom, from) {
		return Transition{}, apperror.State("%s in status %s cannot be %s", m.policy.Entity, from, to)
	}

	return Transition{From: from, To: to, Action: action, Remarks: remarks}, nil
}

// Edit validates a content edit and returns the status the entity resets to.
func (m Machine[T]) Edit(subject T) (Transition, error) {
	from := subject.ApprovalState()
	if len(m.policy.EditableFrom) > 0 && !contains(m.policy.EditableFrom, from) {
		return Transition{}, apperror.State("only %s %ss can be edited (current status: %s)",
			joinStatuses(m.policy.EditableFrom), m.policy.Entity, from)
	}
	return Transition{From: from, To: StatusPending}, nil
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinStatuses(list []Status) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, "/")
}
