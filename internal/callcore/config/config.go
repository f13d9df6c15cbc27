// Package config holds the three option groups the store needs (capture,
// match, sort) and the glue to populate the sort group from an external
// setting-lookup collaborator.
package config

// CaptureOptions bounds retention and controls RTP ingestion.
type CaptureOptions struct {
	Limit       int  // 0 = unbounded, rotation disabled
	Rotate      bool // enable FIFO eviction of the oldest unlocked call
	RTPCapture  bool // when false, RTP ingress is skipped entirely
	StorageMode bool // when true, retain raw packet payload per message
}

// MatchOptions configures the admission-time Match Engine and filters.
type MatchOptions struct {
	Expr     string
	Invert   bool
	Case     bool
	Invite   bool // require the call's first message to be INVITE
	Complete bool // require the call's first message to be dialog-initiating
}

// SortField names a sortable Call attribute.
type SortField int

const (
	SortByIndex SortField = iota
	SortByFrom
	SortByTo
	SortByStartTime
	SortByState
	SortByDuration
)

// SortOptions configures the Call Store's display ordering.
type SortOptions struct {
	By  SortField
	Asc bool
}

// SettingLookup is the external config-module collaborator: a string→string
// lookup over two well-known keys.
type SettingLookup interface {
	Lookup(key string) (string, bool)
}

const (
	keySortField = "call-list.sort-field"
	keySortOrder = "call-list.sort-order"
)

// LoadSort builds SortOptions from a SettingLookup, falling back to
// call-index ascending when a setting is absent or unrecognized.
func LoadSort(lookup SettingLookup) SortOptions {
	opts := SortOptions{By: SortByIndex, Asc: true}
	if lookup == nil {
		return opts
	}

	if v, ok := lookup.Lookup(keySortField); ok {
		if field, ok := parseSortField(v); ok {
			opts.By = field
		}
	}
	if v, ok := lookup.Lookup(keySortOrder); ok {
		opts.Asc = v != "desc"
	}
	return opts
}

func parseSortField(v string) (SortField, bool) {
	switch v {
	case "index":
		return SortByIndex, true
	case "from":
		return SortByFrom, true
	case "to":
		return SortByTo, true
	case "starttime":
		return SortByStartTime, true
	case "state":
		return SortByState, true
	case "duration":
		return SortByDuration, true
	default:
		return 0, false
	}
}
