package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/todaysfinds/tkd-car/models"
)

func TestNewAttendanceRecordStartsPending(t *testing.T) {
	rec := NewAttendanceRecord(5, "2024-03-04")
	assert.Equal(t, models.StatusPending, rec.PickupStatus)
	assert.Equal(t, models.StatusPending, rec.DropoffStatus)
	assert.Equal(t, "2024-03-04", rec.Date)
}

func TestApplyToggleSetsThenUndoes(t *testing.T) {
	for _, status := range []string{models.StatusBoarded, models.StatusAbsent} {
		rec := NewAttendanceRecord(1, "2024-03-04")

		got := ApplyToggle(&rec, ChannelPickup, status)
		assert.Equal(t, status, got)
		assert.Equal(t, status, rec.PickupStatus)

		// Toggling the same status again reverts to pending.
		got = ApplyToggle(&rec, ChannelPickup, status)
		assert.Equal(t, models.StatusPending, got)
		assert.Equal(t, models.StatusPending, rec.PickupStatus)
	}
}

func TestApplyToggleDropoffChannel(t *testing.T) {
	rec := NewAttendanceRecord(1, "2024-03-04")

	assert.Equal(t, models.StatusDropped, ApplyToggle(&rec, ChannelDropoff, models.StatusDropped))
	assert.Equal(t, models.StatusPending, ApplyToggle(&rec, ChannelDropoff, models.StatusDropped))

	assert.Equal(t, models.StatusAbsent, ApplyToggle(&rec, ChannelDropoff, models.StatusAbsent))
	assert.Equal(t, models.StatusPending, ApplyToggle(&rec, ChannelDropoff, models.StatusAbsent))
}

func TestApplyToggleSwitchesBetweenStatuses(t *testing.T) {
	rec := NewAttendanceRecord(1, "2024-03-04")

	ApplyToggle(&rec, ChannelPickup, models.StatusBoarded)
	// absent over boarded replaces, it does not undo
	assert.Equal(t, models.StatusAbsent, ApplyToggle(&rec, ChannelPickup, models.StatusAbsent))
	assert.Equal(t, models.StatusAbsent, rec.PickupStatus)
}

func TestApplyToggleChannelsIndependent(t *testing.T) {
	rec := NewAttendanceRecord(1, "2024-03-04")

	ApplyToggle(&rec, ChannelPickup, models.StatusBoarded)
	assert.Equal(t, models.StatusPending, rec.DropoffStatus)

	ApplyToggle(&rec, ChannelDropoff, models.StatusAbsent)
	assert.Equal(t, models.StatusBoarded, rec.PickupStatus)

	ApplyToggle(&rec, ChannelDropoff, models.StatusAbsent) // undo
	assert.Equal(t, models.StatusBoarded, rec.PickupStatus)
	assert.Equal(t, models.StatusPending, rec.DropoffStatus)
}

func TestApplyToggleManualOverrideHasNoUndo(t *testing.T) {
	rec := NewAttendanceRecord(1, "2024-03-04")

	assert.Equal(t, models.StatusParentPickup, ApplyToggle(&rec, ChannelPickup, models.StatusParentPickup))
	// Repeating the override keeps it set instead of cycling back.
	assert.Equal(t, models.StatusParentPickup, ApplyToggle(&rec, ChannelPickup, models.StatusParentPickup))

	assert.Equal(t, models.StatusDojoPickup, ApplyToggle(&rec, ChannelDropoff, models.StatusDojoPickup))
	assert.Equal(t, models.StatusDojoPickup, rec.DropoffStatus)
}
