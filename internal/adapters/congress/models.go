package congress

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString tolerates fields the API emits both quoted and bare numeric
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
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
		*f = FlexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*f = FlexString(string(data))
	return nil
}

// String returns the underlying value
func (f FlexString) String() string { return string(f) }

// LatestAction is the most recent action on a list or detail row
type LatestAction struct {
	Text       string `json:"text"`
	ActionDate string `json:"actionDate"`
}

// ListBill is one row from the /bill list endpoints
type ListBill struct {
	Congress      int           `json:"congress"`
	Type          string        `json:"type"`
	Number        FlexString    `json:"number"`
	Title         string        `json:"title"`
	OriginChamber string        `json:"originChamber"`
	Chamber       string        `json:"chamber"`
	LatestAction  *LatestAction `json:"latestAction"`
	UpdateDate    string        `json:"updateDate"`
	URL           string        `json:"url"`
}

// listEnvelope wraps the /bill list response
type listEnvelope struct {
	Bills []ListBill `json:"bills"`
}

// CommitteeBill is one row from /committee/{chamber}/{code}/bills
type CommitteeBill struct {
	Congress         int        `json:"congress"`
	Type             string     `json:"type"`
	Number           FlexString `json:"number"`
	RelationshipType string     `json:"relationshipType"`
	ActionDate       string     `json:"actionDate"`
	UpdateDate       string     `json:"updateDate"`
	URL              string     `json:"url"`
}

// committeeBillsEnvelope wraps the committee bills response
type committeeBillsEnvelope struct {
	CommitteeBills struct {
		Bills []CommitteeBill `json:"bills"`
	} `json:"committee-bills"`
}

// Person carries the only sponsor field the pipeline needs
type Person struct {
	BioguideID string `json:"bioguideId"`
}

// PersonList tolerates the detail endpoint emitting either an array of
// people or a {count, url} summary object; the object decodes to empty
type PersonList []Person

// UnmarshalJSON implements json.Unmarshaler
func (p *PersonList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*p = nil
		return nil
	}
	var people []Person
	if err := json.Unmarshal(data, &people); err != nil {
		return err
	}
	*p = people
	return nil
}

// BioguideIDs returns the non-empty ids in order
func (p PersonList) BioguideIDs() []string {
	out := make([]string, 0, len(p))
	for _, person := range p {
		if person.BioguideID != "" {
			out = append(out, person.BioguideID)
		}
	}
	return out
}

// BillDetail is the /bill/{congress}/{type}/{number} payload
type BillDetail struct {
	Congress           int           `json:"congress"`
	Type               string        `json:"type"`
	Number             FlexString    `json:"number"`
	Title              string        `json:"title"`
	TitleWithoutNumber string        `json:"titleWithoutNumber"`
	OriginChamber      string        `json:"originChamber"`
	Chamber            string        `json:"chamber"`
	OriginChamberCode  string        `json:"originChamberCode"`
	LatestAction       *LatestAction `json:"latestAction"`
	UpdateDate         string        `json:"updateDate"`
	IntroducedDate     string        `json:"introducedDate"`
	Sponsors           PersonList    `json:"sponsors"`
	Cosponsors         PersonList    `json:"cosponsors"`
}

// DisplayTitle prefers the full title, falling back to the unnumbered form
func (d BillDetail) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.TitleWithoutNumber
}

// detailEnvelope wraps the bill detail response
type detailEnvelope struct {
	Bill BillDetail `json:"bill"`
}

// BillCommittee is one committee associated with a measure
type BillCommittee struct {
	Name       string `json:"name"`
	SystemCode string `json:"systemCode"`
	Chamber    string `json:"chamber"`
}

// committeesEnvelope wraps the bill committees response
type committeesEnvelope struct {
	Committees []BillCommittee `json:"committees"`
}

// Member is the /member/{bioguideId} payload trimmed to name fields
type Member struct {
	BioguideID      string `json:"bioguideId"`
	DirectOrderName string `json:"directOrderName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// memberEnvelope wraps the member response
type memberEnvelope struct {
	Member Member `json:"member"`
}

// Name resolves {first, last} from the member fields, preferring the
// explicit name fields and falling back to "Last, First M." display order
func (m Member) Name() (first, last string) {
	last = m.LastName
	first = m.FirstName
	if m.DirectOrderName != "" {
		parts := splitComma(m.DirectOrderName)
		if last == "" && len(parts) > 0 {
			last = parts[0]
		}
		if first == "" && len(parts) > 1 {
			first = firstWord(parts[1])
		}
	}
	first = firstWord(first)
	return first, last
}

func splitComma(s string) []string {
	var out []string
	for _, p := range bytes.Split([]byte(s), []byte(",")) {
		out = append(out, string(bytes.TrimSpace(p)))
	}
	return out
}

func firstWord(s string) string {
	fields := bytes.Fields([]byte(s))
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}
