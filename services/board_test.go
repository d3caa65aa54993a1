package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/todaysfinds/tkd-car/models"
)

func student(id uint, name, home string, part int) models.Student {
	return models.Student{ID: id, Name: name, PickupLocation: home, SessionPart: part}
}

func entry(studentID uint, day int, category, location string) models.ScheduleEntry {
	return models.ScheduleEntry{StudentID: studentID, DayOfWeek: day, Category: category, Location: location}
}

func TestBuildBoardGroupsByDaySessionCategoryLocation(t *testing.T) {
	alice := student(1, "김하늘", "호수마을", 2)
	bob := student(2, "박준서", "", 2)

	pairs := []BoardRow{
		{Student: alice, Entry: entry(1, 0, models.CategoryPickup, "호수마을")},
		{Student: bob, Entry: entry(2, 0, models.CategoryPickup, "호수마을")},
		{Student: alice, Entry: entry(1, 0, models.CategoryDropoff, "호수마을")},
	}

	b := BuildBoard(pairs, nil)

	rows := b[0]["2"][models.CategoryPickup]["호수마을"]
	assert.Len(t, rows, 2)
	assert.Equal(t, "김하늘", rows[0].Student.Name)
	assert.Equal(t, "박준서", rows[1].Student.Name)
	assert.Len(t, b[0]["2"][models.CategoryDropoff]["호수마을"], 1)
}

func TestBuildBoardDeterministic(t *testing.T) {
	pairs := []BoardRow{
		{Student: student(3, "이서연", "", 1), Entry: entry(3, 2, models.CategoryPickup, "중앙초")},
		{Student: student(1, "김하늘", "", 1), Entry: entry(1, 2, models.CategoryPickup, "중앙초")},
		{Student: student(2, "박준서", "", 1), Entry: entry(2, 2, models.CategoryDropoff, "중앙초")},
	}
	slots := []models.ScheduleSlot{
		{DayOfWeek: 2, SessionPart: 3, Category: models.CategoryPickup, Location: "신도림역"},
	}

	first, err := json.Marshal(BuildBoard(pairs, slots))
	assert.NoError(t, err)

	// Reversed input order must not change the output.
	reversed := []BoardRow{pairs[2], pairs[1], pairs[0]}
	second, err := json.Marshal(BuildBoard(reversed, slots))
	assert.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBuildBoardCareAndNationalUseUnifiedCategory(t *testing.T) {
	care := models.ScheduleEntry{StudentID: 1, DayOfWeek: 4, Category: models.CategoryCare, CareGroup: 2, Location: "도장"}
	national := models.ScheduleEntry{StudentID: 2, DayOfWeek: 4, Category: models.CategoryNational, Location: "도장"}

	b := BuildBoard([]BoardRow{
		{Student: student(1, "김하늘", "", 1), Entry: care},
		{Student: student(2, "박준서", "", 3), Entry: national},
	}, nil)

	assert.Len(t, b[4]["care2"][CategoryUnified]["도장"], 1)
	assert.Len(t, b[4][SessionNational][CategoryUnified]["도장"], 1)
	// Session part of the student must not leak into special tracks.
	assert.NotContains(t, b[4], "3")
}

func TestBuildBoardLocationFallback(t *testing.T) {
	withHome := student(1, "김하늘", "호수마을", 1)
	noHome := student(2, "박준서", "", 1)

	b := BuildBoard([]BoardRow{
		{Student: withHome, Entry: entry(1, 0, models.CategoryPickup, "")},
		{Student: noHome, Entry: entry(2, 0, models.CategoryPickup, "")},
	}, nil)

	assert.Len(t, b[0]["1"][models.CategoryPickup]["호수마을"], 1)
	assert.Len(t, b[0]["1"][models.CategoryPickup]["미정_2"], 1)
}

func TestBuildBoardSlotSuppressedByRealStudent(t *testing.T) {
	pairs := []BoardRow{
		{Student: student(1, "김하늘", "", 2), Entry: entry(1, 1, models.CategoryPickup, "호수마을")},
	}
	slots := []models.ScheduleSlot{
		{DayOfWeek: 1, SessionPart: 2, Category: models.CategoryPickup, Location: "호수마을"},
		{DayOfWeek: 1, SessionPart: 2, Category: models.CategoryPickup, Location: "신도림역"},
	}

	b := BuildBoard(pairs, slots)

	// Occupied bucket keeps only the real student.
	assert.Len(t, b[1]["2"][models.CategoryPickup]["호수마을"], 1)
	assert.Equal(t, "김하늘", b[1]["2"][models.CategoryPickup]["호수마을"][0].Student.Name)

	// Empty slot stays visible as an empty, non-nil bucket.
	empty, ok := b[1]["2"][models.CategoryPickup]["신도림역"]
	assert.True(t, ok)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestBuildBoardNoPickupBucketWithoutPickupEntry(t *testing.T) {
	// Student has a home stop but only a Monday dropoff entry there; the
	// board must not invent a pickup bucket for them.
	s := student(7, "최민재", "호수마을", 1)
	b := BuildBoard([]BoardRow{
		{Student: s, Entry: entry(7, 0, models.CategoryDropoff, "호수마을")},
	}, nil)

	assert.Len(t, b[0]["1"][models.CategoryDropoff]["호수마을"], 1)
	_, hasPickup := b[0]["1"][models.CategoryPickup]
	assert.False(t, hasPickup)
}

func TestDayBoard(t *testing.T) {
	b := BuildBoard([]BoardRow{
		{Student: student(1, "김하늘", "", 1), Entry: entry(1, 3, models.CategoryPickup, "중앙초")},
	}, nil)

	assert.Len(t, DayBoard(b, 3), 1)
	assert.NotNil(t, DayBoard(b, 5))
	assert.Empty(t, DayBoard(b, 5))
}
