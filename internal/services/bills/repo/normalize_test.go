package repo

import (
	"testing"

	"congresswatch/internal/core/bill"
)

func TestDecodeDocument_Canonical(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"lastUpdated":1720000000000,"map":{
		"118-HRES-114":{"congress":118,"type":"HRES","number":"114","title":"Censuring"}
	}}`)
	recs, ts := decodeDocument(doc)
	if ts != 1720000000000 {
		t.Fatalf("lastUpdated = %d", ts)
	}
	if len(recs) != 1 || recs["118-HRES-114"].Title != "Censuring" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestDecodeDocument_ItemsVariant(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"lastUpdated":5,"items":{
		"119:HRES:123":{"congress":119,"type":"hres","number":123,"relationshipType":"Referred to"}
	}}`)
	recs, ts := decodeDocument(doc)
	if ts != 5 {
		t.Fatalf("lastUpdated = %d", ts)
	}
	r, ok := recs["119-HRES-123"]
	if !ok {
		t.Fatalf("colon key should normalize to dash form, got %v", keysOf(recs))
	}
	if r.Type != "HRES" || r.Number != "123" {
		t.Fatalf("record = %+v", r)
	}
}

func TestDecodeDocument_MapItemsNesting(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"map":{"items":{
		"118-SRES-9":{"congress":118,"type":"SRES","number":"9","title":"T"}
	}},"lastUpdated":7}`)
	recs, ts := decodeDocument(doc)
	if ts != 7 || len(recs) != 1 {
		t.Fatalf("recs=%d ts=%d", len(recs), ts)
	}
}

func TestDecodeDocument_BillsArray(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"lastUpdated":9,"bills":[
		{"congress":118,"type":"hres","number":"114","title":"A"},
		{"congress":118,"type":"HRES","number":114,"title":"B dup"}
	]}`)
	recs, _ := decodeDocument(doc)
	if len(recs) != 1 {
		t.Fatalf("duplicate keys should collapse, got %d", len(recs))
	}
	if recs["118-HRES-114"].Title != "A" {
		t.Fatalf("first occurrence should win, got %q", recs["118-HRES-114"].Title)
	}
}

func TestDecodeDocument_BareDict(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"118-HRES-114":{"congress":118,"type":"HRES","number":"114"}}`)
	recs, _ := decodeDocument(doc)
	if len(recs) != 1 {
		t.Fatalf("bare dict should decode, got %d", len(recs))
	}
}

func TestDecodeDocument_KeyRecoversIdentity(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"map":{"119:SRES:42":{"title":"Only a title"}}}`)
	recs, _ := decodeDocument(doc)
	r, ok := recs["119-SRES-42"]
	if !ok {
		t.Fatalf("identity should come from the key, got %v", keysOf(recs))
	}
	if r.Congress != 119 || r.Type != "SRES" || r.Number != "42" {
		t.Fatalf("record = %+v", r)
	}
}

func TestDecodeDocument_LegacyActionString(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"map":{"118-HRES-1":{"congress":118,"type":"HRES","number":"1",
		"latestAction":"Referred to the House Committee on Ethics."}}}`)
	recs, _ := decodeDocument(doc)
	r := recs["118-HRES-1"]
	if r.LatestAction == nil || r.LatestAction.Text != "Referred to the House Committee on Ethics." {
		t.Fatalf("string action should decode to text, got %+v", r.LatestAction)
	}
}

func TestDecodeDocument_GarbageIsEmpty(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{"", "null", "[1,2,3]", `"hello"`, "{not json"} {
		recs, _ := decodeDocument([]byte(doc))
		if len(recs) != 0 {
			t.Fatalf("doc %q should decode empty, got %d", doc, len(recs))
		}
	}
}

func TestDecodeDocument_LegacyURLSpellings(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"map":{
		"118-HRES-1":{"congress":118,"type":"HRES","number":"1","detailUrl":"https://a"},
		"118-HRES-2":{"congress":118,"type":"HRES","number":"2","congressdotgov_url":"https://b"},
		"118-HRES-3":{"congress":118,"type":"HRES","number":"3","url":"https://c"}
	}}`)
	recs, _ := decodeDocument(doc)
	for key, want := range map[string]string{
		"118-HRES-1": "https://a",
		"118-HRES-2": "https://b",
		"118-HRES-3": "https://c",
	} {
		if got := recs[key].DetailURL; got != want {
			t.Fatalf("%s DetailURL = %q, want %q", key, got, want)
		}
	}
}

func keysOf(m map[string]bill.Record) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
