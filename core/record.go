package core

// IDFieldName is the server-managed identifier field present on every remote
// table. It is never writeable, except that updates carry it to address the
// target record.
const IDFieldName = "Id"

// Record is one row of a remote resource, mapping field name to value.
// Values are scalars (string, number, bool) or comma-joined tag lists.
type Record map[string]any

// ID returns the record identifier, coercing the common wire representations
// (JSON numbers decode as float64). The second return value is false when the
// record carries no usable identifier.
func (r Record) ID() (int, bool) {
	v, ok := r[IDFieldName]
	if !ok {
		return 0, false
	}
	return coerceID(v)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func coerceID(v any) (int, bool) {
	switch id := v.(type) {
	case int:
		return id, id > 0
	case int64:
		return int(id), id > 0
	case uint:
		return int(id), id > 0
	case float64:
		n := int(id)
		if float64(n) != id {
			return 0, false
		}
		return n, n > 0
	}
	return 0, false
}
