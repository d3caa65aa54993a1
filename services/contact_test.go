package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/todaysfinds/tkd-car/models"
)

func TestResolveContactsOrdering(t *testing.T) {
	st := models.Student{
		Name:             "김하늘",
		AllowContact:     true,
		Phone:            "010-1111-2222",
		Phone2:           "010-3333-4444",
		EmergencyContact: "010-5555-6666",
	}

	contacts, err := ResolveContacts(st)
	assert.NoError(t, err)
	assert.Len(t, contacts, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{contacts[0].Priority, contacts[1].Priority, contacts[2].Priority})
	assert.Equal(t, "tel:010-1111-2222", contacts[0].TelLink)
}

func TestResolveContactsSkipsUnsetFields(t *testing.T) {
	st := models.Student{AllowContact: true, Phone2: "010-3333-4444"}

	contacts, err := ResolveContacts(st)
	assert.NoError(t, err)
	assert.Len(t, contacts, 1)
	for _, ct := range contacts {
		assert.NotEmpty(t, ct.Number)
	}
}

func TestResolveContactsFailsExplicitly(t *testing.T) {
	_, err := ResolveContacts(models.Student{AllowContact: true})
	assert.ErrorIs(t, err, ErrNoContact)

	_, err = ResolveContacts(models.Student{AllowContact: false, Phone: "010-1111-2222"})
	assert.ErrorIs(t, err, ErrContactNotAllowed)
}

func TestMessageForKnownTypes(t *testing.T) {
	st := models.Student{Name: "김하늘", PickupLocation: "호수마을", SessionPart: 2}

	assert.Contains(t, MessageFor(st, MessagePickup), "김하늘")
	assert.Contains(t, MessageFor(st, MessagePickup), "호수마을")
	assert.Contains(t, MessageFor(st, MessageArrival), "도착")
	assert.Contains(t, MessageFor(st, MessageDeparture), "하차")
}

func TestMessageForUnknownTypePassesThrough(t *testing.T) {
	st := models.Student{Name: "김하늘"}
	assert.Equal(t, "totally-unknown", MessageFor(st, "totally-unknown"))
}

func TestSendKakaoSimulationWithoutSettings(t *testing.T) {
	st := models.Student{Name: "김하늘"}
	now := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	res := SendKakao(st, "msg", nil, now)
	assert.True(t, res.Success)
	assert.True(t, res.Simulation)
	assert.True(t, strings.Contains(res.Preview, "2024-03-04 15:30"))
}

func TestSendKakaoModes(t *testing.T) {
	st := models.Student{Name: "김하늘"}
	now := time.Now()

	inactive := &models.KakaoSettings{IsActive: false}
	assert.True(t, SendKakao(st, "m", inactive, now).Simulation)

	test := &models.KakaoSettings{IsActive: true, TestMode: true}
	res := SendKakao(st, "m", test, now)
	assert.False(t, res.Simulation)
	assert.True(t, res.TestMode)

	live := &models.KakaoSettings{IsActive: true, TestMode: false}
	res = SendKakao(st, "m", live, now)
	assert.False(t, res.Simulation)
	assert.False(t, res.TestMode)
	assert.True(t, res.Success)
}
