package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Service loads a device capability manifest once and answers field
// metadata, write validation, and read-everything payload construction.
//
// The schema is immutable after construction and shared read-only by all
// requests, so no locking is needed.
type Service struct {
	schema   *Schema
	fieldMap map[string]*Field
}

// New builds a Service from the first readable manifest in definitionPaths.
// When none of the paths yields a parseable manifest, the built-in fallback
// schema is used; a missing manifest is degraded service, never a startup
// failure.
func New(definitionPaths []string, logger Logger) *Service {
	s := &Service{}

	for _, path := range definitionPaths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var m manifest
		if err := json.Unmarshal(data, &m); err != nil {
			logger.Warn("unparseable schema definition", "path", path, "error", err)
			continue
		}
		s.schema = buildSchema(&m, path)
		break
	}

	if s.schema == nil {
		logger.Warn("no schema definition found, using built-in fallback")
		s.schema = fallbackSchema()
	}
	logger.Info("schema loaded",
		"source", s.schema.Source,
		"path", s.schema.SourcePath,
		"fields", s.schema.FieldCount,
		"options", s.schema.OptionCount,
	)

	s.fieldMap = make(map[string]*Field, len(s.schema.Fields)+len(s.schema.Options))
	for i := range s.schema.Fields {
		if f := &s.schema.Fields[i]; f.Name != "" {
			s.fieldMap[f.Name] = f
		}
	}
	for i := range s.schema.Options {
		if f := &s.schema.Options[i]; f.Name != "" {
			s.fieldMap[f.Name] = f
		}
	}
	return s
}

// Schema returns the loaded capability model. The returned value is shared
// and must be treated as read-only.
func (s *Service) Schema() *Schema {
	return s.schema
}

// Field returns the manifest entry for a field name, or false when the
// manifest does not know the field.
func (s *Service) Field(name string) (*Field, bool) {
	f, ok := s.fieldMap[name]
	return f, ok
}

// buildSchema normalises a parsed manifest into the session-facing model.
func buildSchema(m *manifest, path string) *Schema {
	fields := make([]Field, 0, len(m.Exposes))
	for i := range m.Exposes {
		fields = append(fields, normalizeEntry(&m.Exposes[i], "exposes"))
	}
	options := make([]Field, 0, len(m.Options))
	for i := range m.Options {
		options = append(options, normalizeEntry(&m.Options[i], "options"))
	}

	return &Schema{
		Source:         "zigbee2mqtt_definition",
		SourcePath:     path,
		Model:          m.Model,
		Vendor:         m.Vendor,
		GeneratedAt:    float64(time.Now().UnixMilli()) / 1000,
		FieldCount:     len(fields),
		OptionCount:    len(options),
		Fields:         fields,
		Options:        options,
		PresenceFields: append([]string(nil), presenceFields...),
	}
}

// normalizeEntry converts one raw manifest entry, including nested
// features, into a Field.
func normalizeEntry(e *manifestEntry, source string) Field {
	f := normalizeFeature(e)
	f.Source = source
	f.Category = e.Category
	if f.Category == "" {
		f.Category = "none"
	}
	f.Presets = e.Presets
	if e.ItemType != nil {
		item := normalizeFeature(e.ItemType)
		f.ItemType = &item
	}
	f.Tab = inferTab(e.Name, e.Category)
	f.Section = inferSection(e.Name, e.Category)
	return f
}

// normalizeFeature converts the feature-level subset of a manifest entry.
func normalizeFeature(e *manifestEntry) Field {
	label := e.Label
	if label == "" {
		label = e.Name
	}
	if label == "" {
		label = "Unknown"
	}

	features := make([]Field, 0, len(e.Features))
	for i := range e.Features {
		features = append(features, normalizeFeature(&e.Features[i]))
	}

	return Field{
		Name:        e.Name,
		Property:    e.Property,
		Label:       label,
		Description: e.Description,
		Type:        e.Type,
		Access:      e.Access,
		CanRead:     e.Access&accessPublished != 0 || e.Access&accessRead != 0,
		CanWrite:    e.Access&accessWrite != 0,
		ValueMin:    e.ValueMin,
		ValueMax:    e.ValueMax,
		ValueStep:   e.ValueStep,
		Unit:        e.Unit,
		Values:      e.Values,
		ValueOn:     e.ValueOn,
		ValueOff:    e.ValueOff,
		Features:    features,
	}
}

// FullReadPayload builds the /get request body for a force-sync: every
// readable manifest field mapped to an empty placeholder, plus the power
// state and brightness convenience fields. Falls back to a fixed field
// list when the manifest exposes nothing readable.
func (s *Service) FullReadPayload() map[string]any {
	payload := make(map[string]any)
	for i := range s.schema.Fields {
		f := &s.schema.Fields[i]
		if f.Name != "" && f.CanRead {
			payload[f.Name] = ""
		}
	}

	if len(payload) == 0 {
		for _, name := range fallbackReadFields {
			payload[name] = ""
		}
	}

	payload["state"] = ""
	payload["brightness"] = ""
	return payload
}

// ResolveEnumToken picks the enum literal that enables or disables a
// binary-flavoured enum field such as mmWaveTargetInfoReport. It scans the
// declared values for a case-insensitive enable/disable substring, checking
// "disable" first so tokens like "Disable (default)" never false-match
// "enable". When no value matches it falls back to the last (enable) or
// first (disable) declared value, and to hardcoded literals when the
// manifest lacks the field entirely.
func (s *Service) ResolveEnumToken(fieldName string, wantEnabled bool) string {
	const (
		literalEnable  = "Enable"
		literalDisable = "Disable (default)"
	)

	field, ok := s.fieldMap[fieldName]
	if !ok || len(field.Values) == 0 {
		if wantEnabled {
			return literalEnable
		}
		return literalDisable
	}

	for _, v := range field.Values {
		if matchesEnableToken(v, wantEnabled) {
			return v
		}
	}
	if wantEnabled {
		return field.Values[len(field.Values)-1]
	}
	return field.Values[0]
}

// String returns a one-line summary for startup logging.
func (s *Service) String() string {
	return fmt.Sprintf("schema(source=%s fields=%d options=%d)",
		s.schema.Source, s.schema.FieldCount, s.schema.OptionCount)
}
