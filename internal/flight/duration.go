package flight

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationPattern covers the day/time designators providers use for flight
// durations, e.g. PT2H30M, PT02H05M, P1DT3H.
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// maxDurationPart bounds each designator so the folded hour total cannot overflow.
const maxDurationPart = 1_000_000

// Duration is a flight duration prepared for display. When the raw value could
// not be parsed, Parsed is false and Raw is shown as-is.
type Duration struct {
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Raw     string `json:"raw"`
	Parsed  bool   `json:"parsed"`
}

// ParseDuration converts an ISO 8601 duration. Days are folded into hours and
// seconds are dropped.
func ParseDuration(raw string) Duration {
	d := Duration{Raw: raw}

	m := isoDurationPattern.FindStringSubmatch(raw)
	if m == nil || raw == "P" || raw == "PT" {
		return d
	}

	days, err := atoiOrZero(m[1])
	if err != nil {
		return d
	}
	hours, err := atoiOrZero(m[2])
	if err != nil {
		return d
	}
	minutes, err := atoiOrZero(m[3])
	if err != nil {
		return d
	}
	if days > maxDurationPart || hours > maxDurationPart || minutes > maxDurationPart {
		return d
	}

	d.Hours = days*24 + hours + minutes/60
	d.Minutes = minutes % 60
	d.Parsed = true
	return d
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// TotalMinutes is zero for unparsed durations.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

func (d Duration) String() string {
	switch {
	case d.Parsed:
		return fmt.Sprintf("%d hours %d minutes", d.Hours, d.Minutes)
	case d.Raw == "":
		return "N/A"
	default:
		return d.Raw
	}
}

// MarshalJSON adds the display string next to the parsed parts.
func (d Duration) MarshalJSON() ([]byte, error) {
	type plain Duration
	return json.Marshal(struct {
		plain
		Formatted string `json:"formatted"`
	}{plain(d), d.String()})
}
