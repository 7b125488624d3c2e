package object

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature identifies who authored or committed a commit and when. The
// timestamp and timezone are kept in their serialized form so that decoding
// and re-encoding reproduces the original bytes.
type Signature struct {
	Name      string
	Email     string
	Timestamp int64  // seconds since the Unix epoch
	Timezone  string // "+hhmm" or "-hhmm"
}

// NewSignature builds a Signature for the given identity at time t, keeping
// t's UTC offset.
func NewSignature(name, email string, t time.Time) Signature {
	return Signature{
		Name:      name,
		Email:     email,
		Timestamp: t.Unix(),
		Timezone:  t.Format("-0700"),
	}
}

// Time returns the signature time in its recorded zone. An unparsable
// timezone falls back to UTC.
func (s Signature) Time() time.Time {
	t := time.Unix(s.Timestamp, 0)
	offset, err := parseTimezone(s.Timezone)
	if err != nil {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offset))
}

// String renders "Name <email> seconds tz", the commit header value.
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Timestamp, s.Timezone)
}

// Validate reports ErrInvalidSignature when the signature would not survive a
// round trip through a commit header: the name or email contains a newline
// or an angle bracket, or the timezone is not "+hhmm" / "-hhmm".
func (s Signature) Validate() error {
	if strings.ContainsAny(s.Name, "\n<>") {
		return fmt.Errorf("%w: name %q contains a newline or angle bracket", ErrInvalidSignature, s.Name)
	}
	if strings.ContainsAny(s.Email, "\n<>") {
		return fmt.Errorf("%w: email %q contains a newline or angle bracket", ErrInvalidSignature, s.Email)
	}
	if _, err := parseTimezone(s.Timezone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// ParseSignature parses a commit author or committer header value.
func ParseSignature(val string) (Signature, error) {
	open := strings.LastIndex(val, "<")
	closing := strings.LastIndex(val, ">")
	if open < 0 || closing < open {
		return Signature{}, fmt.Errorf("malformed signature %q", val)
	}

	sig := Signature{
		Name:  strings.TrimSuffix(val[:open], " "),
		Email: val[open+1 : closing],
	}

	fields := strings.Fields(val[closing+1:])
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("malformed signature %q: want timestamp and timezone", val)
	}
	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("malformed signature %q: bad timestamp: %w", val, err)
	}
	if _, err := parseTimezone(fields[1]); err != nil {
		return Signature{}, fmt.Errorf("malformed signature %q: %w", val, err)
	}
	sig.Timestamp = ts
	sig.Timezone = fields[1]
	return sig, nil
}

func parseTimezone(tz string) (int, error) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return 0, fmt.Errorf("bad timezone %q", tz)
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return 0, fmt.Errorf("bad timezone %q", tz)
	}
	minutes, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return 0, fmt.Errorf("bad timezone %q", tz)
	}
	offset := hours*3600 + minutes*60
	if tz[0] == '-' {
		offset = -offset
	}
	return offset, nil
}
