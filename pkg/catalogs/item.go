// Package catalogs defines the remote-origin data model of shelf: items as
// returned by a catalog source, their identifiers, display-name resolution
// and the stock value rules shared by the overlay and the edit boundary.
package catalogs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/shelf/pkg/constants"
)

// ID is the stable identifier of an item. Sources may send it as a string or
// a number; it is always kept in its canonical string form.
type ID string

// String returns the id as a string.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %w", err)
	}
	*id = ID(canonicalNumber(n.String()))
	return nil
}

// UnmarshalYAML accepts a scalar string or number.
func (id *ID) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(strings.TrimSpace(v))
	case int:
		*id = ID(strconv.Itoa(v))
	case int64:
		*id = ID(strconv.FormatInt(v, 10))
	case uint64:
		*id = ID(strconv.FormatUint(v, 10))
	case float64:
		*id = ID(canonicalNumber(strconv.FormatFloat(v, 'f', -1, 64)))
	default:
		return fmt.Errorf("item id must be a string or number, got %T", raw)
	}
	return nil
}

// canonicalNumber strips a zero fraction so that 5 and 5.0 join.
func canonicalNumber(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		return s[:i]
	}
	return s
}

// Item is a catalog record as delivered by a remote source. Items are
// immutable once fetched and replaced wholesale on the next fetch.
type Item struct {
	ID           ID       `json:"id" yaml:"id"`                                           // Join key between the catalog and the overlay
	ShortName    string   `json:"short_name,omitempty" yaml:"short_name,omitempty"`       // Abbreviated name, highest precedence
	OfficialName string   `json:"official_name,omitempty" yaml:"official_name,omitempty"` // Official name
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`                   // Generic name
	SKU          string   `json:"sku,omitempty" yaml:"sku,omitempty"`                     // Optional stock keeping unit
	Stock        *float64 `json:"stock,omitempty" yaml:"stock,omitempty"`                 // Optional stock count, absent means 0

	// Extra holds JSON fields the core does not interpret.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

var knownFields = map[string]bool{
	"id": true, "short_name": true, "official_name": true, "name": true, "sku": true, "stock": true,
}

// itemFields mirrors Item without its methods.
type itemFields struct {
	ID           ID              `json:"id"`
	ShortName    string          `json:"short_name,omitempty"`
	OfficialName string          `json:"official_name,omitempty"`
	Name         string          `json:"name,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Stock        json.RawMessage `json:"stock,omitempty"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (i *Item) UnmarshalJSON(data []byte) error {
	var known itemFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*i = Item{
		ID:           known.ID,
		ShortName:    known.ShortName,
		OfficialName: known.OfficialName,
		Name:         known.Name,
		SKU:          known.SKU,
		Stock:        remoteStock(known.Stock),
	}
	for k, v := range all {
		if knownFields[k] {
			continue
		}
		if i.Extra == nil {
			i.Extra = make(map[string]json.RawMessage)
		}
		i.Extra[k] = v
	}
	return nil
}

// UnmarshalYAML decodes the known fields with the same lenient stock rule as
// JSON and keeps the rest in Extra.
func (i *Item) UnmarshalYAML(unmarshal func(any) error) error {
	var known struct {
		ID           ID     `yaml:"id"`
		ShortName    string `yaml:"short_name"`
		OfficialName string `yaml:"official_name"`
		Name         string `yaml:"name"`
		SKU          string `yaml:"sku"`
		Stock        any    `yaml:"stock"`
	}
	if err := unmarshal(&known); err != nil {
		return err
	}
	var all map[string]any
	if err := unmarshal(&all); err != nil {
		return err
	}

	*i = Item{
		ID:           known.ID,
		ShortName:    known.ShortName,
		OfficialName: known.OfficialName,
		Name:         known.Name,
		SKU:          known.SKU,
		Stock:        stockValue(known.Stock),
	}
	for k, v := range all {
		if knownFields[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if i.Extra == nil {
			i.Extra = make(map[string]json.RawMessage)
		}
		i.Extra[k] = raw
	}
	return nil
}

// remoteStock reads a JSON stock field leniently.
func remoteStock(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return stockValue(v)
}

// stockValue applies the remote stock rule: sources send numbers or numeric
// strings, anything else counts as absent.
func stockValue(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := ParseStock(n)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// MarshalJSON writes the known fields together with any preserved extras.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Extra)+6)
	for k, v := range i.Extra {
		out[k] = v
	}
	out["id"] = i.ID
	if i.ShortName != "" {
		out["short_name"] = i.ShortName
	}
	if i.OfficialName != "" {
		out["official_name"] = i.OfficialName
	}
	if i.Name != "" {
		out["name"] = i.Name
	}
	if i.SKU != "" {
		out["sku"] = i.SKU
	}
	if i.Stock != nil {
		out["stock"] = *i.Stock
	}
	return json.Marshal(out)
}

// DisplayName resolves the item's name by precedence: short name, official
// name, generic name, then a placeholder built from the id.
func (i Item) DisplayName() string {
	for _, candidate := range []string{i.ShortName, i.OfficialName, i.Name} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return fmt.Sprintf(constants.PlaceholderNameFormat, i.ID)
}

// StockValue returns the stock count, defaulting to 0 when absent.
func (i Item) StockValue() float64 {
	if i.Stock == nil {
		return 0
	}
	return *i.Stock
}

// Float returns a pointer to v, for optional stock fields.
func Float(v float64) *float64 {
	return &v
}
