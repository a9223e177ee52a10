package bouncer

//
// decode.go - response body parsing
//

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ooni/probe-bouncer/internal/model"
)

var (
	// ErrMissingNettests indicates that the response body lacks the net-tests array.
	ErrMissingNettests = errors.New("bouncer: missing net-tests array")

	// ErrNoNettests indicates that the net-tests array is empty.
	ErrNoNettests = errors.New("bouncer: empty net-tests array")

	// ErrMissingAddress indicates that a record lacks the address.
	ErrMissingAddress = errors.New("bouncer: missing address")

	// ErrMissingType indicates that an alternate record lacks the type.
	ErrMissingType = errors.New("bouncer: missing type")

	// ErrNotAnObject indicates that we expected a JSON object.
	ErrNotAnObject = errors.New("bouncer: not a JSON object")
)

// responseAlternate is an alternate collector or test helper.
type responseAlternate struct {
	Address *string
	Front   *string
	Type    *string
}

// parseAlternate parses an alternate collector or test helper entry.
func parseAlternate(data json.RawMessage) (model.BouncerRecord, error) {
	var entry orderedObject
	if err := json.Unmarshal(data, &entry); err != nil {
		return model.BouncerRecord{}, err
	}
	var ra responseAlternate
	fields := []struct {
		key   string
		value **string
	}{
		{"address", &ra.Address},
		{"front", &ra.Front},
		{"type", &ra.Type},
	}
	for _, field := range fields {
		if raw, found := entry.lookup(field.key); found {
			if err := json.Unmarshal(raw, field.value); err != nil {
				return model.BouncerRecord{}, err
			}
		}
	}
	return ra.toRecord()
}

func (ra *responseAlternate) toRecord() (model.BouncerRecord, error) {
	if ra.Address == nil {
		return model.BouncerRecord{}, ErrMissingAddress
	}
	if ra.Type == nil {
		return model.BouncerRecord{}, ErrMissingType
	}
	record := model.BouncerRecord{
		Type:    *ra.Type,
		Address: *ra.Address,
	}
	if ra.Front != nil {
		record.Front = *ra.Front
	}
	return record, nil
}

// orderedMember is a member of an [orderedObject].
type orderedMember struct {
	Key   string
	Value json.RawMessage
}

// orderedObject is a JSON object whose members we keep in document order,
// which decoding into a map would otherwise lose.
type orderedObject []orderedMember

// UnmarshalJSON implements json.Unmarshaler.
func (oo *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*oo = nil // null behaves like an absent field
		return nil
	}
	if delim, good := tok.(json.Delim); !good || delim != '{' {
		return ErrNotAnObject
	}
	var members orderedObject
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, good := tok.(string)
		if !good {
			return ErrNotAnObject
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		members = append(members, orderedMember{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*oo = members
	return nil
}

// lookup returns the value of the member with exactly the given key. When
// the key is repeated, the last value wins.
func (oo orderedObject) lookup(key string) (json.RawMessage, bool) {
	for idx := len(oo) - 1; idx >= 0; idx-- {
		if oo[idx].Key == key {
			return oo[idx].Value, true
		}
	}
	return nil, false
}

// deduplicated returns the members with distinct keys. Each key keeps the
// position of its first occurrence and the value of its last one.
func (oo orderedObject) deduplicated() orderedObject {
	var out orderedObject
	index := make(map[string]int)
	for _, member := range oo {
		if idx, found := index[member.Key]; found {
			out[idx].Value = member.Value
			continue
		}
		index[member.Key] = len(out)
		out = append(out, member)
	}
	return out
}

// discovery is the result of parsing a response body.
type discovery struct {
	collectors []model.BouncerRecord
	helperKeys []string
	helpers    map[string][]model.BouncerRecord
}

func newDiscovery() *discovery {
	return &discovery{
		collectors: []model.BouncerRecord{},
		helperKeys: []string{},
		helpers:    map[string][]model.BouncerRecord{},
	}
}

// addHelperKey registers a helper name, tracking the order in which
// we see helper names for the first time.
func (d *discovery) addHelperKey(key string) {
	if _, found := d.helpers[key]; !found {
		d.helperKeys = append(d.helperKeys, key)
		d.helpers[key] = []model.BouncerRecord{}
	}
}

// addHelper appends a record for the given helper.
func (d *discovery) addHelper(key string, record model.BouncerRecord) {
	d.addHelperKey(key)
	d.helpers[key] = append(d.helpers[key], record)
}

// parseResponseBody parses the response body. The legacy fields come before
// the alternate fields, and records are in document order. Keys are case
// sensitive and, when a key is repeated, the last value wins.
func parseResponseBody(data []byte) (*discovery, error) {
	// encoding/json would silently replace invalid UTF-8 with U+FFFD
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w in response body", ErrInvalidText)
	}
	var body orderedObject
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	var nettests *[]json.RawMessage
	if raw, found := body.lookup("net-tests"); found {
		if err := json.Unmarshal(raw, &nettests); err != nil {
			return nil, err
		}
	}
	if nettests == nil {
		return nil, ErrMissingNettests
	}
	if len(*nettests) < 1 {
		return nil, ErrNoNettests
	}
	var nettest orderedObject
	if err := json.Unmarshal((*nettests)[0], &nettest); err != nil {
		return nil, err
	}
	d := newDiscovery()

	if raw, found := nettest.lookup("collector"); found {
		var address *string
		if err := json.Unmarshal(raw, &address); err != nil {
			return nil, err
		}
		if address != nil {
			d.collectors = append(d.collectors, model.BouncerRecord{
				Type:    model.BouncerRecordTypeOnion,
				Address: *address,
			})
		}
	}

	if raw, found := nettest.lookup("collector-alternate"); found {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
		for idx, entry := range entries {
			record, err := parseAlternate(entry)
			if err != nil {
				return nil, fmt.Errorf("%w in collector-alternate[%d]", err, idx)
			}
			d.collectors = append(d.collectors, record)
		}
	}

	var helpers orderedObject
	if raw, found := nettest.lookup("test-helpers"); found {
		if err := json.Unmarshal(raw, &helpers); err != nil {
			return nil, err
		}
	}
	for _, member := range helpers.deduplicated() {
		var address *string
		if err := json.Unmarshal(member.Value, &address); err != nil {
			return nil, err
		}
		if address == nil {
			return nil, fmt.Errorf("%w in test-helpers[%q]", ErrMissingAddress, member.Key)
		}
		d.addHelper(member.Key, model.BouncerRecord{Address: *address})
	}

	var alternates orderedObject
	if raw, found := nettest.lookup("test-helpers-alternate"); found {
		if err := json.Unmarshal(raw, &alternates); err != nil {
			return nil, err
		}
	}
	for _, member := range alternates.deduplicated() {
		var entries []json.RawMessage
		if err := json.Unmarshal(member.Value, &entries); err != nil {
			return nil, err
		}
		d.addHelperKey(member.Key)
		for idx, entry := range entries {
			record, err := parseAlternate(entry)
			if err != nil {
				return nil, fmt.Errorf("%w in test-helpers-alternate[%q][%d]", err, member.Key, idx)
			}
			d.addHelper(member.Key, record)
		}
	}

	return d, nil
}
