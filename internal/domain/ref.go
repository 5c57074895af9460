package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// BookingRef is a reference to a booking that external payloads may carry
// either as a bare identifier or as an expanded record containing one
// (e.g. {"id": 42} or {"_id": 42} from an upstream that populates relations).
// It normalizes both shapes into a single identifier so comparisons never
// have to care how the reference was stored. A ref that cannot be parsed
// is zero and matches nothing.
type BookingRef struct {
	ID int64
}

func NewBookingRef(id int64) BookingRef { return BookingRef{ID: id} }

// Matches reports whether the ref points at the given booking id.
// A zero ref never matches.
func (r BookingRef) Matches(bookingID int64) bool {
	return r.ID != 0 && r.ID == bookingID
}

func (r BookingRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

func (r *BookingRef) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		r.ID = n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, perr := strconv.ParseInt(s, 10, 64); perr == nil {
			r.ID = parsed
		}
		// non-numeric string: leave zero, treat as non-match
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		for _, key := range []string{"id", "_id", "bookingId"} {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var nested BookingRef
			if err := nested.UnmarshalJSON(raw); err == nil && nested.ID != 0 {
				r.ID = nested.ID
				return nil
			}
		}
		return nil
	}

	// null or any other shape: non-match rather than an error
	r.ID = 0
	return nil
}

func (r BookingRef) Value() (driver.Value, error) {
	return r.ID, nil
}

func (r *BookingRef) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		r.ID = 0
	case int64:
		r.ID = v
	case int:
		r.ID = int64(v)
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("booking ref: cannot scan %q", string(v))
		}
		r.ID = parsed
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("booking ref: cannot scan %q", v)
		}
		r.ID = parsed
	default:
		return fmt.Errorf("booking ref: unsupported type %T", value)
	}
	return nil
}
