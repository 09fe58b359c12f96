package cmdb

import (
	"strconv"

	"github.com/tidwall/gjson"

	"hostlookup/internal/domain"
)

// Dotted field paths requested from the record-return operation
const (
	FieldFQDN          = "config.fqdn"
	FieldIPAddress     = "config.ipaddress"
	FieldILOAddress    = "facts.ilo_ipaddress"
	FieldCloudSelfLink = "cloud.rightscale.links.self"
)

// HostReturnFields is the field list sent with every host search
var HostReturnFields = []string{FieldFQDN, FieldIPAddress, FieldILOAddress, FieldCloudSelfLink}

// RawRecord is one host object as returned by the record-return operation.
// Fields holds the raw "fields" member and is empty when the member is absent.
type RawRecord struct {
	Fields gjson.Result
}

// HostFields is the typed view of the recognized field paths. A nil pointer
// means the path was absent, null, or not a scalar.
type HostFields struct {
	FQDN          *string
	IPAddress     *string
	ILOAddress    *string
	CloudSelfLink *string
}

// DecodeRecords parses a record-return response. The body may be a JSON
// array or an object keyed by record index; anything else is malformed.
func DecodeRecords(body []byte) ([]RawRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	doc := gjson.ParseBytes(body)
	if doc.Type == gjson.Null {
		return nil, nil
	}
	if !doc.IsArray() && !doc.IsObject() {
		return nil, ErrMalformedResponse
	}

	var records []RawRecord
	doc.ForEach(func(_, value gjson.Result) bool {
		rec := RawRecord{}
		if value.IsObject() {
			rec.Fields = value.Get("fields")
		}
		records = append(records, rec)
		return true
	})
	return records, nil
}

// DecodeList parses a listing response into a HostList in document order.
// Object members keep their keys; array elements are keyed by index.
func DecodeList(body []byte) (*domain.HostList, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	doc := gjson.ParseBytes(body)

	list := domain.NewHostList()
	switch {
	case doc.IsObject():
		doc.ForEach(func(key, value gjson.Result) bool {
			list.Set(key.String(), value.String())
			return true
		})
	case doc.IsArray():
		for i, value := range doc.Array() {
			list.Set(strconv.Itoa(i), value.String())
		}
	case doc.Type == gjson.Null:
	default:
		return nil, ErrMalformedResponse
	}
	return list, nil
}

// HasFields reports whether the record carries a non-empty fields object
func (r RawRecord) HasFields() bool {
	if !r.Fields.Exists() || !r.Fields.IsObject() {
		return false
	}
	return len(r.Fields.Map()) > 0
}

// Decode materializes the fields object and extracts the recognized paths.
// ok is false when the record has no usable fields at all.
func (r RawRecord) Decode() (fields HostFields, ok bool) {
	if !r.HasFields() {
		return HostFields{}, false
	}

	m := r.Fields.Map()
	if len(m) == 0 {
		return HostFields{}, false
	}

	fields = HostFields{
		FQDN:          scalar(m, FieldFQDN),
		IPAddress:     scalar(m, FieldIPAddress),
		ILOAddress:    scalar(m, FieldILOAddress),
		CloudSelfLink: scalar(m, FieldCloudSelfLink),
	}
	return fields, true
}

// scalar returns the string form of a scalar member, or nil when the member
// is absent, null, an object or an array
func scalar(m map[string]gjson.Result, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		s := v.String()
		return &s
	default:
		return nil
	}
}

// Value returns the string behind p, or "" when p is nil
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
