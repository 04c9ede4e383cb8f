package layout

// Config is the tunable subset of layout behavior (spec.md §6). The zero
// value is not meant to be used directly; call DefaultConfig and override
// individual fields, or decode a Config from YAML via internal/config.
type Config struct {
	NodeSpacing float64 `yaml:"nodeSpacing"`
	RankSpacing float64 `yaml:"rankSpacing"`

	NodePaddingX float64 `yaml:"nodePaddingX"`
	NodePaddingY float64 `yaml:"nodePaddingY"`

	MaxLabelWidthChars int     `yaml:"maxLabelWidthChars"`
	LabelLineHeight    float64 `yaml:"labelLineHeight"`

	FastTextMetrics bool `yaml:"fastTextMetrics"`

	Flowchart FlowchartConfig `yaml:"flowchart"`
}

// FlowchartConfig groups the generic directed-graph layout's tunables
// (spec.md §6 "flowchart.*" fields).
type FlowchartConfig struct {
	OrderPasses int `yaml:"orderPasses"`

	Routing       RoutingConfig     `yaml:"routing"`
	PortPadRatio  float64           `yaml:"portPadRatio"`
	PortPadMin    float64           `yaml:"portPadMin"`
	PortPadMax    float64           `yaml:"portPadMax"`
	PortSideBias  float64           `yaml:"portSideBias"`
	AutoSpacing   AutoSpacingConfig `yaml:"autoSpacing"`
	Objective     ObjectiveConfig   `yaml:"objective"`
}

// RoutingConfig selects and tunes edge routing (spec.md §4.10).
type RoutingConfig struct {
	EnableGridRouter bool    `yaml:"enableGridRouter"`
	GridCell         float64 `yaml:"gridCell"`
	SnapPortsToGrid  bool    `yaml:"snapPortsToGrid"`
}

// AutoSpacingConfig adapts node/rank spacing to graph density (spec.md
// §4.7).
type AutoSpacingConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Buckets          int     `yaml:"buckets"`
	DensityThreshold float64 `yaml:"densityThreshold"`
	DenseScaleFloor  float64 `yaml:"denseScaleFloor"`
	MinSpacing       float64 `yaml:"minSpacing"`
}

// ObjectiveConfig tunes the visual-objective relaxation pass (spec.md
// §4.12 step "visual objectives").
type ObjectiveConfig struct {
	Enabled             bool    `yaml:"enabled"`
	EdgeRelaxPasses     int     `yaml:"edgeRelaxPasses"`
	EdgeGapFloorRatio   float64 `yaml:"edgeGapFloorRatio"`
	EdgeLabelWeight     float64 `yaml:"edgeLabelWeight"`
	EndpointLabelWeight float64 `yaml:"endpointLabelWeight"`
	MaxAspectRatio      float64 `yaml:"maxAspectRatio"`
	WrapMinChars        int     `yaml:"wrapMinChars"`
	WrapMaxChars        int     `yaml:"wrapMaxChars"`
}

// DefaultConfig returns the engine's built-in tuning, used whenever a
// caller doesn't supply its own Config.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:        40,
		RankSpacing:        60,
		NodePaddingX:       12,
		NodePaddingY:       8,
		MaxLabelWidthChars: 18,
		LabelLineHeight:    1.25,
		FastTextMetrics:    false,
		Flowchart: FlowchartConfig{
			OrderPasses: 4,
			Routing: RoutingConfig{
				EnableGridRouter: false,
				GridCell:         10,
				SnapPortsToGrid:  true,
			},
			PortPadRatio: 0.2,
			PortPadMin:   4,
			PortPadMax:   20,
			PortSideBias: 0.1,
			AutoSpacing: AutoSpacingConfig{
				Enabled:          true,
				Buckets:          4,
				DensityThreshold: 0.6,
				DenseScaleFloor:  0.6,
				MinSpacing:       20,
			},
			Objective: ObjectiveConfig{
				Enabled:             true,
				EdgeRelaxPasses:     2,
				EdgeGapFloorRatio:   0.2,
				EdgeLabelWeight:     0.5,
				EndpointLabelWeight: 0.3,
				MaxAspectRatio:      4,
				WrapMinChars:        6,
				WrapMaxChars:        40,
			},
		},
	}
}
