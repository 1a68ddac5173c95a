package domain

import (
	"errors"
	"testing"
)

func TestSplitMethod_IsValid(t *testing.T) {
	valid := []SplitMethod{SplitEqual, SplitParts, SplitPercentage, SplitCustom}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%s should be valid", m)
		}
	}

	if SplitMethod("weighted").IsValid() {
		t.Error("unknown method should be invalid")
	}
	if SplitMethod("").IsValid() {
		t.Error("empty method should be invalid")
	}
}

func TestTransfer_IsSelf(t *testing.T) {
	self := &Transfer{FromUserID: "alice", ToUserID: "alice"}
	if !self.IsSelf() {
		t.Error("same from and to should be a self transfer")
	}

	debt := &Transfer{FromUserID: "alice", ToUserID: "bob"}
	if debt.IsSelf() {
		t.Error("distinct from and to should not be a self transfer")
	}
}

func TestSumWithinTolerance(t *testing.T) {
	drafts := []TransferDraft{
		{Amount: dec("33.33")},
		{Amount: dec("33.33")},
		{Amount: dec("33.33")},
	}

	if !SumWithinTolerance(dec("99.99"), drafts) {
		t.Error("exact sum should pass")
	}
	if !SumWithinTolerance(dec("100.00"), drafts) {
		t.Error("one cent drift should pass")
	}
	if SumWithinTolerance(dec("100.02"), drafts) {
		t.Error("drift above tolerance should fail")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount", "must be positive")

	if !IsValidationError(err) {
		t.Error("expected IsValidationError to be true")
	}
	if IsValidationError(errors.New("plain")) {
		t.Error("plain error should not be a validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected errors.As to match")
	}
	if ve.Field != "amount" {
		t.Errorf("expected field amount, got %s", ve.Field)
	}
}

func TestConsistencyError(t *testing.T) {
	err := &ConsistencyError{ExpectedTotal: dec("100"), ActualTotal: dec("99.97")}

	if !IsConsistencyError(err) {
		t.Error("expected IsConsistencyError to be true")
	}
	if IsConsistencyError(errors.New("plain")) {
		t.Error("plain error should not be a consistency error")
	}
	if IsValidationError(err) {
		t.Error("consistency error must not classify as a validation error")
	}
}
