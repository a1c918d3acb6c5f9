package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// =============================================================================
// Wire format
// =============================================================================

// nullParent is the on-disk parent id of a root.
const nullParent = "null"

// record is one node as written by every version of the editor:
//
//	{"id": "node-3", "text": "Sub", "parentId": "node-0",
//	 "children": "node-4,node-7", "x": "120px", "y": "240px"}
type record struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	ParentID parentRef `json:"parentId"`
	Children string    `json:"children"`
	X        string    `json:"x,omitempty"`
	Y        string    `json:"y,omitempty"`
}

// parentRef reads "null", JSON null and "" as no parent and always writes
// "null" for a root.
type parentRef string

func (p parentRef) MarshalJSON() ([]byte, error) {
	if p == "" {
		return json.Marshal(nullParent)
	}
	return json.Marshal(string(p))
}

func (p *parentRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nullParent {
		s = ""
	}
	*p = parentRef(s)
	return nil
}

// mapDoc is the node table of one map, keyed by node id, in write order.
type mapDoc = orderedmap.OrderedMap[string, record]

// document is the whole registry, keyed by map name. Entries stay raw so a
// damaged map does not prevent reading the others.
type document struct {
	maps *orderedmap.OrderedMap[string, json.RawMessage]
}

func newDocument() *document {
	return &document{maps: orderedmap.New[string, json.RawMessage]()}
}

// parseDocument decodes the registry value. Empty input and JSON null are
// an empty registry.
func parseDocument(data []byte) (*document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return newDocument(), nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("registry is not a JSON object")
	}
	doc := newDocument()
	if err := json.Unmarshal(trimmed, doc.maps); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *document) bytes() ([]byte, error) {
	return json.Marshal(d.maps)
}

func (d *document) names() []string {
	names := make([]string, 0, d.maps.Len())
	for pair := d.maps.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// =============================================================================
// Map <-> records
// =============================================================================

// encodeMap converts a map to its node table, in node insertion order.
func encodeMap(m *mindmap.Map) (json.RawMessage, error) {
	doc := orderedmap.New[string, record](orderedmap.WithCapacity[string, record](m.Len()))
	for _, n := range m.Nodes() {
		rec := record{
			ID:       n.ID,
			Text:     n.Text,
			ParentID: parentRef(n.ParentID),
			Children: strings.Join(n.Children, ","),
		}
		if n.Position != nil {
			rec.X = formatPx(n.Position.X)
			rec.Y = formatPx(n.Position.Y)
		}
		doc.Set(n.ID, rec)
	}
	return json.Marshal(doc)
}

// decodeMap parses a node table into node records. The record's own id wins
// over its key; the key is used when the id is missing.
func decodeMap(raw json.RawMessage) ([]mindmap.Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("map entry is not a JSON object")
	}
	doc := orderedmap.New[string, record]()
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, err
	}

	nodes := make([]mindmap.Node, 0, doc.Len())
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		rec := pair.Value
		id := rec.ID
		if id == "" {
			id = pair.Key
		}
		n := mindmap.Node{
			ID:       id,
			Text:     rec.Text,
			ParentID: string(rec.ParentID),
			Children: splitChildren(rec.Children),
		}
		if x, okX := parsePx(rec.X); okX {
			if y, okY := parsePx(rec.Y); okY {
				n.Position = &mindmap.Position{X: x, Y: y}
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func splitChildren(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// formatPx writes a CSS pixel length, e.g. 120 -> "120px", 12.5 -> "12.5px".
func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// parsePx reads a CSS pixel length. A bare number is accepted too.
func parsePx(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
