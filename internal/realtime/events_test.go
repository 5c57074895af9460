package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "user:42", UserRoom(42))
	assert.Equal(t, "tracking:7", TrackingRoom(7))
	assert.Equal(t, "mechanics", MechanicRoom())
	assert.Equal(t, "user:0", UserRoom(0))
}

func TestEventMarshalShape(t *testing.T) {
	data, err := json.Marshal(Event{
		Type:    EventRequestUnavailable,
		Payload: map[string]int64{"requestId": 77},
	})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"request-unavailable","payload":{"requestId":77}}`, string(data))
}

func TestEventOmitsEmptyPayload(t *testing.T) {
	data, err := json.Marshal(Event{Type: EventNewRequest})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"type":"new-request"}`, string(data))
}

func TestLocationPingParsing(t *testing.T) {
	var ping LocationPing
	err := json.Unmarshal([]byte(`{
		"bookingId": 5,
		"userId": 1,
		"location": {"latitude": 40.75, "longitude": -73.98}
	}`), &ping)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), ping.BookingID)
	assert.Equal(t, 40.75, ping.Location.Latitude)
	assert.Equal(t, -73.98, ping.Location.Longitude)
}
