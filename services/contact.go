package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/todaysfinds/tkd-car/models"
)

var (
	// ErrContactNotAllowed: the parent opted out of being contacted.
	ErrContactNotAllowed = errors.New("contact not allowed for student")
	// ErrNoContact: no phone number on file at all.
	ErrNoContact = errors.New("no contact available")
)

// ContactOption is one reachable phone channel, ordered by Priority.
type ContactOption struct {
	Type     string `json:"type"`
	Number   string `json:"number"`
	TelLink  string `json:"tel_link"`
	Priority int    `json:"priority"`
}

// ResolveContacts returns the student's reachable phone channels in priority
// order: primary, secondary, emergency. Unset fields are omitted; the result
// never contains a blank number. With contact disallowed or nothing on file
// it fails explicitly instead of returning an empty success.
func ResolveContacts(st models.Student) ([]ContactOption, error) {
	if !st.AllowContact {
		return nil, ErrContactNotAllowed
	}

	var out []ContactOption
	add := func(label, number string, priority int) {
		if number == "" {
			return
		}
		out = append(out, ContactOption{
			Type:     label,
			Number:   number,
			TelLink:  "tel:" + number,
			Priority: priority,
		})
	}
	add("기본 연락처", st.Phone, 1)
	add("추가 연락처", st.Phone2, 2)
	add("비상 연락처", st.EmergencyContact, 3)

	if len(out) == 0 {
		return nil, ErrNoContact
	}
	return out, nil
}

// Message types for templated notifications.
const (
	MessagePickup    = "pickup"
	MessageArrival   = "arrival"
	MessageDeparture = "departure"
	MessageCustom    = "custom"
)

// MessageFor renders the notification template for msgType. Unknown types
// echo the raw type string back, a degenerate template the caller should
// treat as a configuration error rather than a crash.
func MessageFor(st models.Student, msgType string) string {
	switch msgType {
	case MessagePickup:
		return fmt.Sprintf(
			"🚌 차량 픽업 알림\n\n안녕하세요! %s 학생 부모님께 알려드립니다.\n\n📍 픽업 장소: %s\n🎯 수업: %d부\n\n차량이 곧 도착할 예정입니다.\n준비해주세요!",
			st.Name, st.PickupLocation, st.SessionPart)
	case MessageArrival:
		return fmt.Sprintf(
			"🏫 도장 도착 알림\n\n%s 학생이 안전하게 도장에 도착했습니다.\n\n🎯 수업: %d부\n\n수업 후 하차 시간을 별도로 안내드리겠습니다.",
			st.Name, st.SessionPart)
	case MessageDeparture:
		return fmt.Sprintf(
			"🚌 하차 출발 알림\n\n%s 학생이 수업을 마치고 하차를 위해 출발했습니다.\n\n📍 하차 장소: %s\n⏰ 예상 도착: 약 10-15분 후\n\n준비해주세요!",
			st.Name, st.PickupLocation)
	default:
		return msgType
	}
}

// KakaoResult is the envelope for a (simulated) message send.
type KakaoResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Preview    string `json:"preview,omitempty"`
	Note       string `json:"note,omitempty"`
	Action     string `json:"action"`
	Simulation bool   `json:"simulation,omitempty"`
	TestMode   bool   `json:"test_mode,omitempty"`
}

// SendKakao produces the message envelope without performing delivery. An
// inactive settings row means simulation; test mode renders the full preview
// but flags that nothing went out. Real delivery is a pending integration.
func SendKakao(st models.Student, message string, settings *models.KakaoSettings, now time.Time) KakaoResult {
	preview := fmt.Sprintf(
		"📚 %s 학생 차량 알림\n\n%s\n\n🏫 OO태권도장\n⏰ 발송시간: %s",
		st.Name, message, now.Format("2006-01-02 15:04"))

	if settings == nil || !settings.IsActive {
		return KakaoResult{
			Success:    true,
			Message:    fmt.Sprintf("[시뮬레이션] %s 부모님께 카카오톡 발송", st.Name),
			Preview:    preview,
			Note:       "실제 발송에는 카카오톡 비즈니스 계정 설정이 필요합니다.",
			Action:     "kakao",
			Simulation: true,
		}
	}
	if settings.TestMode {
		return KakaoResult{
			Success:  true,
			Message:  fmt.Sprintf("[테스트] %s 부모님께 카카오톡 발송", st.Name),
			Preview:  preview,
			Action:   "kakao",
			TestMode: true,
		}
	}
	return KakaoResult{
		Success: true,
		Message: fmt.Sprintf("%s 부모님께 카카오톡을 발송했습니다.", st.Name),
		Action:  "kakao",
	}
}
