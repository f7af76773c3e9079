package core

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

type (
	ClaimStatus  string
	ActivityKind string
)

const (
	ClaimDraft            ClaimStatus = "Draft"
	ClaimFiled            ClaimStatus = "Filed"
	ClaimInReview         ClaimStatus = "InReview"
	ClaimAdjusterAssigned ClaimStatus = "AdjusterAssigned"
	ClaimSettled          ClaimStatus = "Settled"
	ClaimDenied           ClaimStatus = "Denied"
	ClaimClosed           ClaimStatus = "Closed"
)

const (
	ActivityStatusChange  ActivityKind = "StatusChange"
	ActivityPayout        ActivityKind = "Payout"
	ActivityCommunication ActivityKind = "Communication"
	ActivityAttachment    ActivityKind = "Attachment"
)

var (
	ErrInvalidTransition = errors.New("invalid claim status transition")
	ErrReopenNotAllowed  = errors.New("claim can only be reopened once settled, denied or closed")
	ErrUnknownStatus     = errors.New("unknown claim status")
)

type (
	ClaimActivity struct {
		ID      string       `json:"id"`
		Kind    ActivityKind `json:"kind" validate:"oneof=StatusChange Payout Communication Attachment"`
		Message string       `json:"message" validate:"max=4000"`
		// Timestamp is the system time the entry was recorded.
		Timestamp time.Time `json:"timestamp"`
		// EventDateUTC is an optional user-supplied historical date.
		EventDateUTC Date   `json:"eventDateUtc"`
		DocumentID   string `json:"documentId,omitempty"`
	}

	InsuranceClaim struct {
		ID                string          `json:"id"`
		Title             string          `json:"title" validate:"required,max=200"`
		IncidentDateUTC   Date            `json:"incidentDateUtc"`
		Status            ClaimStatus     `json:"status" validate:"oneof=Draft Filed InReview AdjusterAssigned Settled Denied Closed"`
		ClaimAmount       *Money          `json:"claimAmount,omitempty"`
		PayoutAmount      *Money          `json:"payoutAmount,omitempty"`
		PayoutDestination string          `json:"payoutDestination,omitempty"`
		SettlementDateUTC Date            `json:"settlementDateUtc"`
		ConversationLog   []ClaimActivity `json:"conversationLog" validate:"dive"`
	}

	// Settlement carries the data stamped on a claim by final settlement.
	Settlement struct {
		Payout      Money
		Destination string
		Date        Date
	}
)

var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimDraft:            {ClaimFiled},
	ClaimFiled:            {ClaimInReview, ClaimAdjusterAssigned, ClaimDenied},
	ClaimInReview:         {ClaimAdjusterAssigned, ClaimSettled, ClaimDenied, ClaimClosed},
	ClaimAdjusterAssigned: {ClaimInReview, ClaimSettled, ClaimDenied, ClaimClosed},
	ClaimSettled:          {ClaimClosed},
	ClaimDenied:           {},
	ClaimClosed:           {},
}

// Valid reports whether s is a known status.
func (s ClaimStatus) Valid() bool {
	_, ok := claimTransitions[s]
	return ok
}

// Resolved reports whether the claim has reached a terminal outcome.
func (s ClaimStatus) Resolved() bool {
	return s == ClaimSettled || s == ClaimDenied || s == ClaimClosed
}

// CanTransition reports whether from → to is an allowed forward move.
// Reopening is handled separately by Reopen.
func CanTransition(from, to ClaimStatus) bool {
	return slices.Contains(claimTransitions[from], to)
}

// activityTime is the sort key of a log entry: the user supplied event date
// when present, the system timestamp otherwise.
func (a ClaimActivity) activityTime() time.Time {
	if a.EventDateUTC.Valid() {
		return a.EventDateUTC.Time
	}
	return a.Timestamp
}

// AddActivity inserts an entry and keeps the log sorted newest first.
func (c *InsuranceClaim) AddActivity(a ClaimActivity) {
	c.ConversationLog = append(c.ConversationLog, a)
	c.SortLog()
}

// SortLog orders the conversation log newest first.
func (c *InsuranceClaim) SortLog() {
	slices.SortStableFunc(c.ConversationLog, func(x, y ClaimActivity) int {
		return y.activityTime().Compare(x.activityTime())
	})
}

// TransitionTo moves the claim to a new status and records the change.
func (c *InsuranceClaim) TransitionTo(to ClaimStatus, activityID string, now time.Time, note string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}
	c.recordStatusChange(to, activityID, now, note)
	return nil
}

// Settle performs final settlement: the claim becomes Settled and payout,
// destination and settlement date are stamped.
func (c *InsuranceClaim) Settle(s Settlement, activityIDs [2]string, now time.Time) error {
	if !CanTransition(c.Status, ClaimSettled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, ClaimSettled)
	}
	payout := s.Payout
	c.PayoutAmount = &payout
	c.PayoutDestination = s.Destination
	c.SettlementDateUTC = s.Date
	if !c.SettlementDateUTC.Valid() {
		c.SettlementDateUTC = DateOf(now)
	}
	c.recordStatusChange(ClaimSettled, activityIDs[0], now, "")
	c.AddActivity(ClaimActivity{
		ID:           activityIDs[1],
		Kind:         ActivityPayout,
		Message:      fmt.Sprintf("Payout of %s to %s", payout, s.Destination),
		Timestamp:    now,
		EventDateUTC: c.SettlementDateUTC,
	})
	return nil
}

// Reopen moves a settled, denied or closed claim back to review.
func (c *InsuranceClaim) Reopen(activityID string, now time.Time, reason string) error {
	if !c.Status.Resolved() {
		return fmt.Errorf("%w (status %s)", ErrReopenNotAllowed, c.Status)
	}
	c.recordStatusChange(ClaimInReview, activityID, now, reason)
	return nil
}

func (c *InsuranceClaim) recordStatusChange(to ClaimStatus, activityID string, now time.Time, note string) {
	msg := fmt.Sprintf("Status changed from %s to %s", c.Status, to)
	if note != "" {
		msg += ": " + note
	}
	c.Status = to
	c.AddActivity(ClaimActivity{
		ID:        activityID,
		Kind:      ActivityStatusChange,
		Message:   msg,
		Timestamp: now,
	})
}

// ClaimIndex returns the position of a claim on the policy, -1 when absent.
func (p *InsurancePolicy) ClaimIndex(claimID string) int {
	return slices.IndexFunc(p.Claims, func(c InsuranceClaim) bool { return c.ID == claimID })
}
