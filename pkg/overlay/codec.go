package overlay

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/constants"
	"github.com/agentstation/shelf/pkg/errors"
)

// Codec turns an Area into a persisted blob and back.
type Codec interface {
	Name() string
	Encode(Area) ([]byte, error)
	Decode(key string, blob []byte) (Area, error)
}

// blob is the versioned persisted schema.
type blob struct {
	Version    int              `json:"version" yaml:"version"`
	Area       string           `json:"area" yaml:"area"`
	Members    []catalogs.ID    `json:"members" yaml:"members"`
	Overrides  map[string]Entry `json:"overrides" yaml:"overrides"`
	LocalItems []catalogs.Item  `json:"local_items,omitempty" yaml:"local_items,omitempty"`
	SavedAt    time.Time        `json:"saved_at" yaml:"saved_at"`
}

func toBlob(a Area) blob {
	b := blob{
		Version:    constants.OverlaySchemaVersion,
		Area:       a.ID,
		Members:    a.Members,
		Overrides:  make(map[string]Entry, len(a.Overrides)),
		LocalItems: a.Local,
		SavedAt:    a.SavedAt,
	}
	if b.Members == nil {
		b.Members = []catalogs.ID{}
	}
	for id, e := range a.Overrides {
		b.Overrides[string(id)] = e
	}
	return b
}

// fromBlob validates a decoded blob and converts it to an Area.
func fromBlob(key string, b blob) (Area, error) {
	if b.Version != constants.OverlaySchemaVersion {
		if b.Version == 0 {
			return Area{}, &errors.CorruptOverlayError{Key: key, Err: errors.New("missing version tag")}
		}
		return Area{}, &errors.CorruptOverlayError{Key: key, Version: b.Version}
	}

	a := NewArea(b.Area)
	if a.ID == "" {
		a.ID = key
	}
	a.SavedAt = b.SavedAt
	seen := make(map[catalogs.ID]bool, len(b.Members))
	for _, id := range b.Members {
		if id == "" || seen[id] {
			return Area{}, &errors.CorruptOverlayError{Key: key, Err: errors.New("members contain an empty or duplicate id")}
		}
		seen[id] = true
		a.Members = append(a.Members, id)
	}
	for id, e := range b.Overrides {
		if e.IsEmpty() {
			continue
		}
		a.Overrides[catalogs.ID(id)] = e
	}
	a.Local = catalogs.Dedupe(b.LocalItems)
	return a, nil
}

// JSONCodec is the canonical codec.
type JSONCodec struct{}

// Name returns the codec name.
func (JSONCodec) Name() string { return "json" }

// Encode implements Codec.
func (JSONCodec) Encode(a Area) ([]byte, error) {
	data, err := json.Marshal(toBlob(a))
	if err != nil {
		return nil, errors.WrapParse("json", a.ID, err)
	}
	return data, nil
}

// Decode implements Codec.
func (JSONCodec) Decode(key string, data []byte) (Area, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return Area{}, &errors.CorruptOverlayError{Key: key, Err: err}
	}
	return fromBlob(key, b)
}

// YAMLCodec stores overlays as YAML documents.
type YAMLCodec struct{}

// Name returns the codec name.
func (YAMLCodec) Name() string { return "yaml" }

// Encode implements Codec.
func (YAMLCodec) Encode(a Area) ([]byte, error) {
	data, err := yaml.Marshal(toBlob(a))
	if err != nil {
		return nil, errors.WrapParse("yaml", a.ID, err)
	}
	return data, nil
}

// Decode implements Codec.
func (YAMLCodec) Decode(key string, data []byte) (Area, error) {
	var b blob
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Area{}, &errors.CorruptOverlayError{Key: key, Err: err}
	}
	return fromBlob(key, b)
}

// CodecFor picks a codec by file extension; anything but .yaml or .yml is JSON.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}
