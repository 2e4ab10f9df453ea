package schema

// presenceFields is the fixed set of mmWave presence attributes the UI
// groups together regardless of manifest contents.
var presenceFields = []string{
	"mmwaveControlWiredDevice",
	"mmWaveRoomSizePreset",
	"mmWaveHoldTime",
	"mmWaveDetectSensitivity",
	"mmWaveDetectTrigger",
	"mmWaveTargetInfoReport",
	"mmWaveStayLife",
	"mmWaveVersion",
}

// Field type identifiers as reported by the capability manifest.
const (
	TypeNumeric   = "numeric"
	TypeEnum      = "enum"
	TypeBinary    = "binary"
	TypeComposite = "composite"
	TypeList      = "list"
)

// Access bit flags of a manifest entry.
const (
	accessPublished = 1 // device publishes the value
	accessWrite     = 2 // value can be set
	accessRead      = 4 // value can be read on request
)

// Field is one normalised capability-manifest entry. Fields are immutable
// after manifest load and shared read-only by all requests.
type Field struct {
	Name        string   `json:"name"`
	Property    string   `json:"property,omitempty"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Source      string   `json:"source"`
	Access      int      `json:"access"`
	CanRead     bool     `json:"can_read"`
	CanWrite    bool     `json:"can_write"`
	ValueMin    *float64 `json:"value_min"`
	ValueMax    *float64 `json:"value_max"`
	ValueStep   *float64 `json:"value_step"`
	Unit        string   `json:"unit,omitempty"`
	Values      []string `json:"values"`
	ValueOn     any      `json:"value_on,omitempty"`
	ValueOff    any      `json:"value_off,omitempty"`
	Presets     []any    `json:"presets"`
	ItemType    *Field   `json:"item_type,omitempty"`
	Features    []Field  `json:"features"`
	Tab         string   `json:"tab,omitempty"`
	Section     string   `json:"section,omitempty"`
}

// Schema is the full normalised capability model pushed to sessions as the
// schema_model event.
type Schema struct {
	Source         string   `json:"source"`
	SourcePath     string   `json:"source_path,omitempty"`
	Model          string   `json:"model,omitempty"`
	Vendor         string   `json:"vendor,omitempty"`
	GeneratedAt    float64  `json:"generated_at"`
	FieldCount     int      `json:"field_count"`
	OptionCount    int      `json:"option_count"`
	Fields         []Field  `json:"fields"`
	Options        []Field  `json:"options"`
	PresenceFields []string `json:"mmwave_presence_fields"`
}

// manifest is the on-disk shape of a zigbee2mqtt device definition.
type manifest struct {
	Model   string          `json:"model"`
	Vendor  string          `json:"vendor"`
	Exposes []manifestEntry `json:"exposes"`
	Options []manifestEntry `json:"options"`
}

// manifestEntry is one raw exposes/options entry before normalisation.
type manifestEntry struct {
	Name        string          `json:"name"`
	Property    string          `json:"property"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Access      int             `json:"access"`
	ValueMin    *float64        `json:"value_min"`
	ValueMax    *float64        `json:"value_max"`
	ValueStep   *float64        `json:"value_step"`
	Unit        string          `json:"unit"`
	Values      []string        `json:"values"`
	ValueOn     any             `json:"value_on"`
	ValueOff    any             `json:"value_off"`
	Presets     []any           `json:"presets"`
	ItemType    *manifestEntry  `json:"item_type"`
	Features    []manifestEntry `json:"features"`
}
