package repo

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"congresswatch/internal/core/bill"
)

// decodeDocument accepts every shape the document has ever been written in
// and flattens it to the canonical record map. Shapes seen in the wild:
//
//	{"lastUpdated": <ms>, "map": {key: record}}     canonical
//	{"lastUpdated": <ms>, "items": {key: record}}   flat items variant
//	{"map": {"items": {key: record}}}               doubly nested variant
//	{"lastUpdated": <ms>, "bills": [record, ...]}   array variant
//	{key: record, ...}                              bare dict
//
// Unrecognized input decodes to an empty map rather than an error so a
// corrupt document never wedges the pipeline
func decodeDocument(data []byte) (map[string]bill.Record, int64) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string]bill.Record{}, 0
	}

	var outer struct {
		LastUpdated int64           `json:"lastUpdated"`
		Map         json.RawMessage `json:"map"`
		Items       json.RawMessage `json:"items"`
		Bills       []wireRecord    `json:"bills"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return map[string]bill.Record{}, 0
	}

	if recs, ok := decodeDict(outer.Map); ok {
		return recs, outer.LastUpdated
	}
	if recs, ok := decodeDict(outer.Items); ok {
		return recs, outer.LastUpdated
	}
	if len(outer.Bills) > 0 {
		out := make(map[string]bill.Record, len(outer.Bills))
		for _, wr := range outer.Bills {
			r := wr.toRecord()
			r.Normalize()
			if _, dup := out[r.Key()]; !dup {
				out[r.Key()] = r
			}
		}
		return out, outer.LastUpdated
	}

	// bare dict of records keyed by natural key
	if recs, ok := decodeDict(data); ok && looksLikeKeyDict(data) {
		return recs, outer.LastUpdated
	}
	return map[string]bill.Record{}, outer.LastUpdated
}

// decodeDict parses a {key: record} object, tolerating one extra "items"
// nesting level and legacy colon keys
func decodeDict(raw json.RawMessage) (map[string]bill.Record, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	// peel {"items": {...}} nesting
	var nested struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(bytes.TrimSpace(nested.Items)) > 0 {
		if recs, ok := decodeDict(nested.Items); ok {
			return recs, true
		}
	}

	var dict map[string]wireRecord
	if err := json.Unmarshal(raw, &dict); err != nil {
		return nil, false
	}
	out := make(map[string]bill.Record, len(dict))
	for key, wr := range dict {
		r := wr.toRecord()
		r.Normalize()
		if r.Congress == 0 || r.Type == "" || r.Number == "" {
			// record body is incomplete; recover identity from the key
			if congress, typ, number, ok := bill.ParseKey(key); ok {
				if r.Congress == 0 {
					r.Congress = congress
				}
				if r.Type == "" {
					r.Type = typ
				}
				if r.Number == "" {
					r.Number = number
				}
			}
		}
		if r.Congress == 0 && r.Type == "" && r.Number == "" {
			continue
		}
		out[r.Key()] = r
	}
	if len(out) == 0 && len(dict) > 0 {
		return nil, false
	}
	return out, true
}

// looksLikeKeyDict reports whether the top-level keys look like natural keys
func looksLikeKeyDict(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	for key := range probe {
		if _, _, _, ok := bill.ParseKey(key); ok {
			return true
		}
	}
	return false
}

// flexString tolerates values written both quoted and bare numeric
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*f = flexString(string(data))
	return nil
}

// flexAction tolerates latestAction written as an object or a bare string
type flexAction struct {
	action *bill.Action
}

func (f *flexAction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.action = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			f.action = &bill.Action{Text: s}
		}
		return nil
	}
	var a bill.Action
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	f.action = &a
	return nil
}

// wireRecord reads a persisted record tolerating legacy field spellings
type wireRecord struct {
	Congress            int        `json:"congress"`
	Type                string     `json:"type"`
	Number              flexString `json:"number"`
	Title               string     `json:"title"`
	TitleWithoutNumber  string     `json:"titleWithoutNumber"`
	OriginChamber       string     `json:"originChamber"`
	Chamber             string     `json:"chamber"`
	LatestAction        flexAction `json:"latestAction"`
	UpdateDate          string     `json:"updateDate"`
	IntroducedDate      string     `json:"introducedDate"`
	IntroDate           string     `json:"introDate"`
	CommitteeActionDate string     `json:"committeeActionDate"`
	RelationshipType    string     `json:"relationshipType"`
	SponsorIDs          []string   `json:"sponsorIds"`
	CosponsorIDs        []string   `json:"cosponsorIds"`
	CongressURL         string     `json:"congressdotgov_url"`
	DetailURL           string     `json:"detailUrl"`
	URL                 string     `json:"url"`
	LastCached          int64      `json:"lastCached"`
}

func (w wireRecord) toRecord() bill.Record {
	r := bill.Record{
		Congress:            w.Congress,
		Type:                w.Type,
		Number:              string(w.Number),
		Title:               firstNonEmpty(w.Title, w.TitleWithoutNumber),
		OriginChamber:       firstNonEmpty(w.OriginChamber, w.Chamber),
		LatestAction:        w.LatestAction.action,
		UpdateDate:          w.UpdateDate,
		IntroducedDate:      firstNonEmpty(w.IntroducedDate, w.IntroDate),
		CommitteeActionDate: w.CommitteeActionDate,
		RelationshipType:    w.RelationshipType,
		SponsorIDs:          w.SponsorIDs,
		CosponsorIDs:        w.CosponsorIDs,
		DetailURL:           firstNonEmpty(w.CongressURL, w.DetailURL, w.URL),
		LastCached:          w.LastCached,
	}
	return r
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			return x
		}
	}
	return ""
}
