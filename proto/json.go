package proto

import (
	"github.com/goccy/go-json"
)

type clockJSON struct {
	Type    string `json:"type"`
	Hours   uint8  `json:"hours"`
	Minutes uint8  `json:"minutes"`
	Seconds uint8  `json:"seconds"`
}

type tagJSON struct {
	Type string `json:"type"`
}

func (QueryTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagJSON{Type: "query_time"})
}

func (s SetTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(clockJSON{Type: "set_time", Hours: s.Hours, Minutes: s.Minutes, Seconds: s.Seconds})
}

func (Ack) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagJSON{Type: "ack"})
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(clockJSON{Type: "time", Hours: t.Hours, Minutes: t.Minutes, Seconds: t.Seconds})
}

func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Code uint8  `json:"code"`
	}{Type: "failure", Code: f.Code})
}
