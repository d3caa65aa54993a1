package services

import "github.com/todaysfinds/tkd-car/models"

// Channel selects which side of an attendance record a change applies to.
type Channel string

const (
	ChannelPickup  Channel = "pickup"
	ChannelDropoff Channel = "dropoff"
)

// ValidChannel reports whether s names an attendance channel.
func ValidChannel(s string) bool {
	return s == string(ChannelPickup) || s == string(ChannelDropoff)
}

// NewAttendanceRecord returns a fresh record with both channels pending.
func NewAttendanceRecord(studentID uint, date string) models.AttendanceRecord {
	return models.AttendanceRecord{
		StudentID:     studentID,
		Date:          date,
		PickupStatus:  models.StatusPending,
		DropoffStatus: models.StatusPending,
	}
}

// ApplyToggle transitions one channel of rec and returns the new status.
// Requesting the channel's current status reverts it to pending (undo);
// anything else sets the requested status. Manual overrides
// (parent_pickup / dojo_pickup) are set directly with no undo cycle. The
// other channel is never touched.
func ApplyToggle(rec *models.AttendanceRecord, ch Channel, requested string) string {
	cur := rec.PickupStatus
	if ch == ChannelDropoff {
		cur = rec.DropoffStatus
	}

	next := requested
	if toggleable(ch, requested) && cur == requested {
		next = models.StatusPending
	}

	if ch == ChannelDropoff {
		rec.DropoffStatus = next
	} else {
		rec.PickupStatus = next
	}
	return next
}

func toggleable(ch Channel, status string) bool {
	switch status {
	case models.StatusAbsent:
		return true
	case models.StatusBoarded:
		return ch == ChannelPickup
	case models.StatusDropped:
		return ch == ChannelDropoff
	}
	return false
}
