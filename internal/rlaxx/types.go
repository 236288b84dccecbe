// SPDX-License-Identifier: MIT

package rlaxx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	unorm "golang.org/x/text/unicode/norm"
)

const (
	// DeviceModel and AppVersion identify the web player build the API expects.
	DeviceModel = "web-browser"
	AppVersion  = "1.0.0"

	// DefaultChannelName is used for channels that arrive without a name.
	DefaultChannelName = "Unknown Channel"

	// GuideWindow is the span of programme data requested per run.
	GuideWindow = 24 * time.Hour
)

// DeviceIdentity is the throwaway device registration sent to the login
// endpoint. A new one is generated for every run.
type DeviceIdentity struct {
	DeviceID    string `json:"deviceId"`
	DeviceModel string `json:"deviceModel"`
	AppVersion  string `json:"appVersion"`
	Region      string `json:"region"`
}

// NewDeviceIdentity returns an identity with a random device id.
func NewDeviceIdentity(region string) DeviceIdentity {
	return DeviceIdentity{
		DeviceID:    uuid.NewString(),
		DeviceModel: DeviceModel,
		AppVersion:  AppVersion,
		Region:      region,
	}
}

// Session carries the bearer token for the duration of one run.
type Session struct {
	Token string
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool { return s.Token != "" }

// Channel is a catalog entry.
type Channel struct {
	ID      string
	Name    string
	Logo    string
	PlayURL string
	URL     string
}

// StreamURL returns the primary stream URL, falling back to the secondary one.
// It may be empty.
func (c Channel) StreamURL() string {
	if c.PlayURL != "" {
		return c.PlayURL
	}
	return c.URL
}

// Programme is one EPG entry. Start and End are millisecond epoch values as
// delivered upstream; End < Start is passed through untouched.
type Programme struct {
	ChannelID   string
	Start       int64
	End         int64
	Title       string
	Description string
}

// StartTime returns Start as a UTC time.
func (p Programme) StartTime() time.Time { return time.UnixMilli(p.Start).UTC() }

// EndTime returns End as a UTC time.
func (p Programme) EndTime() time.Time { return time.UnixMilli(p.End).UTC() }

// TimeWindow is the guide range shared by every EPG batch of a run.
type TimeWindow struct {
	Start int64 // ms epoch
	End   int64 // ms epoch
}

// NewTimeWindow returns the 24 hour window beginning at now.
func NewTimeWindow(now time.Time) TimeWindow {
	start := now.UnixMilli()
	return TimeWindow{Start: start, End: start + GuideWindow.Milliseconds()}
}

// flexString accepts a JSON string or number and keeps its textual form.
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = flexString{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString{value: s, set: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString{value: n.String(), set: true}
		return nil
	}
}

// optString is flexString for optional fields: values that are neither a
// string nor a number decode as unset instead of failing the record.
type optString struct {
	flexString
}

func (o *optString) UnmarshalJSON(data []byte) error {
	if err := o.flexString.UnmarshalJSON(data); err != nil {
		o.flexString = flexString{}
	}
	return nil
}

// flexMillis accepts an integer, a float or a numeric string.
type flexMillis struct {
	value int64
	set   bool
}

func (f *flexMillis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = flexMillis{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = flexMillis{value: v, set: true}
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("expected millisecond timestamp, got %s", data)
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return fmt.Errorf("millisecond timestamp out of range: %s", data)
	}
	*f = flexMillis{value: int64(v), set: true}
	return nil
}

type channelRecord struct {
	ID      flexString `json:"id"`
	Name    optString  `json:"name"`
	Logo    optString  `json:"logo"`
	PlayURL optString  `json:"playUrl"`
	URL     optString  `json:"url"`
}

func (r channelRecord) toChannel(idx int) (Channel, error) {
	if !r.ID.set || strings.TrimSpace(r.ID.value) == "" {
		return Channel{}, fmt.Errorf("channel #%d: missing id", idx)
	}
	name := cleanText(r.Name.value)
	if name == "" {
		name = DefaultChannelName
	}
	// Stream URLs are kept byte for byte.
	return Channel{
		ID:      strings.TrimSpace(r.ID.value),
		Name:    name,
		Logo:    strings.TrimSpace(r.Logo.value),
		PlayURL: r.PlayURL.value,
		URL:     r.URL.value,
	}, nil
}

type programmeRecord struct {
	ChannelID   flexString `json:"channelId"`
	StartTime   flexMillis `json:"startTime"`
	EndTime     flexMillis `json:"endTime"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

func (r programmeRecord) toProgramme(idx int) (Programme, error) {
	if !r.ChannelID.set || strings.TrimSpace(r.ChannelID.value) == "" {
		return Programme{}, fmt.Errorf("programme #%d: missing channelId", idx)
	}
	if !r.StartTime.set || !r.EndTime.set {
		return Programme{}, fmt.Errorf("programme #%d: missing startTime/endTime", idx)
	}
	return Programme{
		ChannelID:   strings.TrimSpace(r.ChannelID.value),
		Start:       r.StartTime.value,
		End:         r.EndTime.value,
		Title:       cleanText(r.Title),
		Description: cleanText(r.Description),
	}, nil
}

// cleanText trims and composes text to NFC so equivalent names render identically.
func cleanText(s string) string {
	return unorm.NFC.String(strings.TrimSpace(s))
}
