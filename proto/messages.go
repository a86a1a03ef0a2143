package proto

import "fmt"

// Command discriminants.
const (
	TagQueryTime uint32 = 0
	TagSetTime   uint32 = 1
)

// Response discriminants.
const (
	TagAck     uint32 = 0
	TagTime    uint32 = 1
	TagFailure uint32 = 2
)

// Command is a request sent from the host to the device. The set of
// implementations is closed: QueryTime and SetTime.
type Command interface {
	fmt.Stringer
	tag() uint32
	encodeBody(e *encoder) error
}

// Response is a reply sent from the device to the host. The set of
// implementations is closed: Ack, Time and Failure.
type Response interface {
	fmt.Stringer
	tag() uint32
	encodeBody(e *encoder) error
}

// QueryTime asks the device for its current time of day.
type QueryTime struct{}

func (QueryTime) tag() uint32 { return TagQueryTime }

func (QueryTime) encodeBody(*encoder) error { return nil }

func (QueryTime) String() string { return "QueryTime" }

// SetTime sets the device clock. Fields are sent as-is; the device is
// responsible for rejecting out of range values.
type SetTime struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

func (SetTime) tag() uint32 { return TagSetTime }

func (s SetTime) encodeBody(e *encoder) error {
	return e.bytes(s.Hours, s.Minutes, s.Seconds)
}

func (s SetTime) String() string {
	return fmt.Sprintf("SetTime { hours: %d, minutes: %d, seconds: %d }", s.Hours, s.Minutes, s.Seconds)
}

// Ack acknowledges a command that carries no reply payload.
type Ack struct{}

func (Ack) tag() uint32 { return TagAck }

func (Ack) encodeBody(*encoder) error { return nil }

func (Ack) String() string { return "Ack" }

// Time is the device's time of day.
type Time struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

func (Time) tag() uint32 { return TagTime }

func (t Time) encodeBody(e *encoder) error {
	return e.bytes(t.Hours, t.Minutes, t.Seconds)
}

func (t Time) String() string {
	return fmt.Sprintf("Time { hours: %d, minutes: %d, seconds: %d }", t.Hours, t.Minutes, t.Seconds)
}

// Failure carries a device error code.
type Failure struct {
	Code uint8
}

func (Failure) tag() uint32 { return TagFailure }

func (f Failure) encodeBody(e *encoder) error {
	return e.bytes(f.Code)
}

func (f Failure) String() string {
	return fmt.Sprintf("Failure { code: %d }", f.Code)
}
