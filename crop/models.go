package crop

// Prototype is a single labelled training sample in scaled feature space.
type Prototype struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Features []float64 `json:"features"`
}

// Recommendation pairs a crop with its penalty-adjusted confidence,
// formatted as an integer percentage ("95%").
type Recommendation struct {
	Crop       string `json:"crop"`
	Confidence string `json:"confidence"`
}

// Metadata records how the rainfall input was obtained. This is part of the
// response contract, not optional telemetry.
type Metadata struct {
	RainfallSource    string  `json:"rainfall_source"`
	RainfallValueUsed float64 `json:"rainfall_value_used"`
}

// Summary packages the ranked recommendations together with auxiliary
// telemetry emitted to HTTP and socket clients.
type Summary struct {
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []string         `json:"warnings"` // nil encodes as null
	Metadata        Metadata         `json:"metadata"`
	LatencyMs       float64          `json:"latencyMs,omitempty"`
	FeatureVector   []float64        `json:"featureVector,omitempty"`
}

// ModelStats exposes metadata about the loaded prototype collection.
type ModelStats struct {
	PrototypeCount int             `json:"prototypeCount"`
	CropCount      int             `json:"cropCount"`
	Crops          []ModelCropStat `json:"crops"`
	SchemaVersion  int             `json:"schemaVersion"`
}

// ModelCropStat summarises prototype density per crop class.
type ModelCropStat struct {
	Crop       string `json:"crop"`
	Prototypes int    `json:"prototypes"`
}
