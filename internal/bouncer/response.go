package bouncer

import (
	"errors"
	"fmt"

	"github.com/ooni/probe-bouncer/internal/model"
)

// ErrNoSuchEntry indicates that you asked for an index or a
// helper name that does not exist in the [*Response].
var ErrNoSuchEntry = errors.New("bouncer: no such entry")

// Response is the result of [*Client.Perform]. The zero value is
// a failed response with no logs.
type Response struct {
	collectors []model.BouncerRecord
	good       bool
	helperKeys []string
	helpers    map[string][]model.BouncerRecord
	logs       []byte
}

// Good returns whether the exchange succeeded and we could parse the body.
func (r *Response) Good() bool {
	return r.good
}

// NumCollectors returns the number of collectors.
func (r *Response) NumCollectors() int {
	return len(r.collectors)
}

// CollectorAt returns the collector at the given index.
func (r *Response) CollectorAt(idx int) (model.BouncerRecord, error) {
	if idx < 0 || idx >= len(r.collectors) {
		return model.BouncerRecord{}, fmt.Errorf("%w: collector #%d", ErrNoSuchEntry, idx)
	}
	return r.collectors[idx], nil
}

// Collectors returns a copy of the collectors in the order in which the
// bouncer returned them: the legacy collector first, then the alternates.
func (r *Response) Collectors() []model.BouncerRecord {
	return append([]model.BouncerRecord{}, r.collectors...)
}

// NumHelperKeys returns the number of distinct helper names.
func (r *Response) NumHelperKeys() int {
	return len(r.helperKeys)
}

// HelperKeyAt returns the helper name at the given index. Helper names
// are ordered by the first time we saw them in the response.
func (r *Response) HelperKeyAt(idx int) (string, error) {
	if idx < 0 || idx >= len(r.helperKeys) {
		return "", fmt.Errorf("%w: helper key #%d", ErrNoSuchEntry, idx)
	}
	return r.helperKeys[idx], nil
}

// HelperKeys returns a copy of the helper names.
func (r *Response) HelperKeys() []string {
	return append([]string{}, r.helperKeys...)
}

// NumHelpers returns the number of records for the given helper name, which
// is zero when we don't know about such a helper.
func (r *Response) NumHelpers(key string) int {
	return len(r.helpers[key])
}

// HelperAt returns the record at the given index for the given helper name.
func (r *Response) HelperAt(key string, idx int) (model.BouncerRecord, error) {
	records, found := r.helpers[key]
	if !found {
		return model.BouncerRecord{}, fmt.Errorf("%w: helper %q", ErrNoSuchEntry, key)
	}
	if idx < 0 || idx >= len(records) {
		return model.BouncerRecord{}, fmt.Errorf("%w: helper %q record #%d", ErrNoSuchEntry, key, idx)
	}
	return records[idx], nil
}

// Helpers returns a copy of the records for the given helper name.
func (r *Response) Helpers(key string) []model.BouncerRecord {
	return append([]model.BouncerRecord{}, r.helpers[key]...)
}

// Logs returns a copy of the logs.
func (r *Response) Logs() []byte {
	return append([]byte{}, r.logs...)
}

// MoveOutLogs returns the logs and transfers their ownership to
// the caller. Subsequent calls return empty logs.
func (r *Response) MoveOutLogs() []byte {
	logs := r.logs
	r.logs = nil
	return logs
}

// appendLogs appends raw bytes to the logs.
func (r *Response) appendLogs(data []byte) {
	r.logs = append(r.logs, data...)
}

// logf formats a log line and appends it to the logs.
func (r *Response) logf(format string, v ...any) {
	r.logs = fmt.Appendf(r.logs, format, v...)
	r.logs = append(r.logs, '\n')
}

// setDiscovery stores the result of parsing and marks the response as good.
func (r *Response) setDiscovery(d *discovery) {
	r.collectors = d.collectors
	r.helperKeys = d.helperKeys
	r.helpers = d.helpers
	r.good = true
}
