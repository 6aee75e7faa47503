package dto

import (
	"encoding/json"
	"time"
)

// APIDate handles the public API's "2006-01-02" date strings. The API
// occasionally serves "0000-00-00" or an empty string; both decode to
// the zero time instead of failing the whole payload.
type APIDate struct {
	time.Time
}

// UnmarshalJSON parses the provider's date format.
func (d *APIDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
	} else {
		d.Time = time.Time{}
	}
	return nil
}

// ErrorPayload is the error envelope the public API embeds in an
// otherwise successful response.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Artist is an {id, name} reference used across payloads.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
