package reshape

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	perr "censusbq/internal/platform/errors"
)

// Access-log style layouts accepted for usage timestamps, e.g. 01/Jan/2014:10:00:00 +0000
var timestampLayouts = []string{
	"2/Jan/2006:15:04:05 -0700",
	"2/Jan/2006:15:04:05 -07:00",
}

// zone names accepted in place of a numeric offset
var zeroOffsetZones = map[string]bool{"UTC": true, "GMT": true, "Z": true}

const zoneNameLayout = "2/Jan/2006:15:04:05"

// ParseTimestamp parses a usage timestamp in day/month-abbrev/year:time zone form
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if i := strings.LastIndexByte(s, ' '); i > 0 && zeroOffsetZones[strings.ToUpper(s[i+1:])] {
		if t, err := time.ParseInLocation(zoneNameLayout, s[:i], time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, perr.TimestampFormatf("reshape: timestamp %q is not in dd/Mon/yyyy:HH:MM:SS zone form", s)
}

// FormatTimestamp renders t the way the warehouse expects it: RFC3339 in UTC
func FormatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Usage rewrites one usage record:
//   - jobs becomes [{"type":..., "count":...}] with '-' in job names replaced by '_';
//     it is always present, [] when absent, null or not an object, and keeps its position
//     when it was there already
//   - a string timestamp is normalized to RFC3339 UTC; null is left alone
func Usage(line []byte) ([]byte, error) {
	obj, err := ParseObject(line)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: usage record is not a JSON object")
	}

	jobs, err := jobsArray(obj)
	if err != nil {
		return nil, err
	}
	obj.Set("jobs", jobs)

	if raw, ok := obj.Get("timestamp"); ok && !isNull(raw) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, perr.TimestampFormatf("reshape: timestamp %s is not a string", bytes.TrimSpace(raw))
		}
		t, err := ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		obj.Set("timestamp", quote(FormatTimestamp(t)))
	}

	out, err := obj.MarshalJSON()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: encode usage record")
	}
	return out, nil
}

func jobsArray(obj *Object) (json.RawMessage, error) {
	raw, ok := obj.Get("jobs")
	if !ok || !isObject(raw) {
		return json.RawMessage("[]"), nil
	}
	jobs, err := ParseObject(raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: jobs")
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, m := range jobs.Members() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"type":`)
		if err := writeString(&buf, strings.ReplaceAll(m.Key, "-", "_")); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: jobs")
		}
		buf.WriteString(`,"count":`)
		if err := json.Compact(&buf, m.Value); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "reshape: jobs")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
