package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "pending to completed skips confirmation", from: StatusPending, to: StatusCompleted, want: false},
		{name: "pending to no_show skips confirmation", from: StatusPending, to: StatusNoShow, want: false},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed back to pending", from: StatusConfirmed, to: StatusPending, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPending, want: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusConfirmed, want: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusConfirmed, want: false},
		{name: "same status is a no-op", from: StatusConfirmed, to: StatusConfirmed, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCountsTowardCapacity(t *testing.T) {
	counting := []string{StatusPending, StatusConfirmed}
	for _, status := range counting {
		if !CountsTowardCapacity(status) {
			t.Errorf("expected %s to count toward capacity", status)
		}
	}

	freed := []string{StatusCancelled, StatusCompleted, StatusNoShow}
	for _, status := range freed {
		if CountsTowardCapacity(status) {
			t.Errorf("expected %s to free capacity", status)
		}
	}
}

func TestBookingUpdate_RechecksAvailability(t *testing.T) {
	participants := 3
	if (&BookingUpdate{CustomerName: "New Name"}).RechecksAvailability() {
		t.Error("renaming the customer must not trigger re-validation")
	}
	if !(&BookingUpdate{Participants: &participants}).RechecksAvailability() {
		t.Error("changing participants must trigger re-validation")
	}
	activityID := "64f0c0a1b2c3d4e5f6a7b8c9"
	if !(&BookingUpdate{ActivityID: &activityID}).RechecksAvailability() {
		t.Error("moving the booking to another activity must trigger re-validation")
	}
}
