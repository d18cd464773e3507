package booking

import (
	"fmt"

	"shipbook/internal/pkg/errs"
)

// Stage is the lifecycle state of a booking draft. It implements the
// orchestrator's state machine; every transition is validated so a draft can
// never skip a stage.
//
// Transitions:
//
//	Collecting ──> Quoting ──> Review ──> Paying ──> Confirmed  [terminal]
//	    ^  ^          │           │          │
//	    │  └──────────┴───────────┘          │ (abandon / verification failed)
//	    │         (details resubmitted)      v
//	    └──────────────────────────────  Cancelling
//	              (order cancelled, draft retained)
type Stage int

const (
	// StageUnknown is the invalid zero value.
	StageUnknown Stage = iota

	// StageCollecting: addresses and package profile are being gathered.
	StageCollecting

	// StageQuoting: inputs are valid, the user is choosing a carrier or
	// group shipment.
	StageQuoting

	// StageReview: a selection was made and a quote shown; awaiting the
	// user's confirmation to pay.
	StageReview

	// StagePaying: a pending order exists and payment is in flight.
	StagePaying

	// StageConfirmed: payment verified, booking complete. Terminal.
	StageConfirmed

	// StageCancelling: payment was abandoned or rejected and the pending
	// order is being compensated; the draft is retained for retry.
	StageCancelling
)

func stageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:    "Unknown",
		StageCollecting: "Collecting",
		StageQuoting:    "Quoting",
		StageReview:     "Review",
		StagePaying:     "Paying",
		StageConfirmed:  "Confirmed",
		StageCancelling: "Cancelling",
	}
}

// String implements fmt.Stringer. Safe on any value, including invalid ones.
func (s Stage) String() string {
	if str, ok := stageStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects StageUnknown and any undefined value.
func (s Stage) Validate() error {
	if s == StageUnknown {
		return invalidStage(s, "be used")
	}
	if _, ok := stageStrings()[s]; !ok {
		return invalidStage(s, "be used")
	}
	return nil
}

// SubmitDetails transitions to Quoting. Allowed from Collecting and, because
// any input change invalidates the current quote, also from Quoting and
// Review.
func (s Stage) SubmitDetails() (Stage, error) {
	switch s {
	case StageCollecting, StageQuoting, StageReview:
		return StageQuoting, nil
	default:
		return StageUnknown, invalidStage(s, "submit details")
	}
}

// Select transitions to Review on a carrier/group choice. Re-selection from
// Review is allowed and replaces the quote.
func (s Stage) Select() (Stage, error) {
	switch s {
	case StageQuoting, StageReview:
		return StageReview, nil
	default:
		return StageUnknown, invalidStage(s, "select a rate")
	}
}

// BeginPayment transitions Review to Paying when the user confirms payment.
func (s Stage) BeginPayment() (Stage, error) {
	if s != StageReview {
		return StageUnknown, invalidStage(s, "begin payment")
	}
	return StagePaying, nil
}

// Confirm transitions Paying to the terminal Confirmed stage.
func (s Stage) Confirm() (Stage, error) {
	if s != StagePaying {
		return StageUnknown, invalidStage(s, "confirm")
	}
	return StageConfirmed, nil
}

// Cancel transitions Paying to Cancelling when checkout is dismissed or
// verification fails.
func (s Stage) Cancel() (Stage, error) {
	if s != StagePaying {
		return StageUnknown, invalidStage(s, "cancel")
	}
	return StageCancelling, nil
}

// ResumeCollecting returns a cancelled-payment draft to Collecting so the
// user can retry.
func (s Stage) ResumeCollecting() (Stage, error) {
	if s != StageCancelling {
		return StageUnknown, invalidStage(s, "resume collecting")
	}
	return StageCollecting, nil
}

func invalidStage(s Stage, action string) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"stage is invalid",
		fmt.Errorf("%s is not a valid stage to %s", s.String(), action),
	)
}
