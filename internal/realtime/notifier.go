package realtime

import "roadassist/internal/domain"

// Notifier is what the business modules see of the push channel. Every method
// is best-effort: a failure to deliver never fails the operation that
// triggered it.
type Notifier interface {
	// NotifyNewRequest announces a fresh request to the mechanic pool.
	NotifyNewRequest(req *domain.ServiceRequest)
	// NotifyRequestUnavailable tells every mechanic the request is gone.
	NotifyRequestUnavailable(requestID int64)
	// NotifyRequestAccepted tells the requesting user who took the job.
	NotifyRequestAccepted(userID int64, mechanic *domain.MechanicProfile, booking *domain.Booking)
	// NotifyBookingUpdated pushes a booking delta to the user's room.
	NotifyBookingUpdated(userID int64, booking *domain.Booking)
	// NotifyBookingCompleted tells the user the work is done and payment is due.
	NotifyBookingCompleted(userID int64, booking *domain.Booking)
	// NotifyMechanicLocation forwards a live position to whoever tracks the booking.
	NotifyMechanicLocation(userID, bookingID int64, lat, lng float64)
}

// HubNotifier adapts the websocket hub to the Notifier interface.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewRequest(req *domain.ServiceRequest) {
	n.hub.Broadcast(MechanicRoom(), Event{Type: EventNewRequest, Payload: req})
}

func (n *HubNotifier) NotifyRequestUnavailable(requestID int64) {
	n.hub.Broadcast(MechanicRoom(), Event{
		Type:    EventRequestUnavailable,
		Payload: map[string]int64{"requestId": requestID},
	})
}

func (n *HubNotifier) NotifyRequestAccepted(userID int64, mechanic *domain.MechanicProfile, booking *domain.Booking) {
	n.hub.Broadcast(UserRoom(userID), Event{
		Type: EventRequestAccepted,
		Payload: map[string]any{
			"mechanic": mechanic,
			"booking":  booking,
		},
	})
}

func (n *HubNotifier) NotifyBookingUpdated(userID int64, booking *domain.Booking) {
	n.hub.Broadcast(UserRoom(userID), Event{Type: EventBookingUpdated, Payload: booking})
}

func (n *HubNotifier) NotifyBookingCompleted(userID int64, booking *domain.Booking) {
	n.hub.Broadcast(UserRoom(userID), Event{Type: EventBookingCompleted, Payload: booking})
}

func (n *HubNotifier) NotifyMechanicLocation(userID, bookingID int64, lat, lng float64) {
	payload := map[string]any{
		"bookingId": bookingID,
		"location":  map[string]float64{"latitude": lat, "longitude": lng},
	}
	n.hub.Broadcast(UserRoom(userID), Event{Type: EventMechanicLocation, Payload: payload})
	n.hub.Broadcast(TrackingRoom(bookingID), Event{Type: EventMechanicLocation, Payload: payload})
}
