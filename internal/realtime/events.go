package realtime

// Event is a push frame delivered to subscribed clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event types. The pool and lifecycle views on the client refetch in
// reaction to these; payloads carry enough to act without a refetch where the
// original contract did.
const (
	EventNewRequest         = "new-request"
	EventRequestUnavailable = "request-unavailable"
	EventRequestAccepted    = "request-accepted"
	EventBookingUpdated     = "booking-updated"
	EventBookingCompleted   = "booking-completed"
	EventMechanicLocation   = "mechanic-location"
)

// Inbound frame types read off the client connection.
const (
	frameJoinUserRoom     = "join-user-room"
	frameJoinMechanicRoom = "join-mechanic-room"
	frameJoinTracking     = "join-tracking"
	frameUpdateLocation   = "update-location"
)

// Room names. Membership is per connection and is dropped on disconnect;
// a reconnecting client joins again.
const mechanicRoom = "mechanics"

func UserRoom(userID int64) string { return "user:" + itoa(userID) }

func TrackingRoom(bookingID int64) string { return "tracking:" + itoa(bookingID) }

func MechanicRoom() string { return mechanicRoom }

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
