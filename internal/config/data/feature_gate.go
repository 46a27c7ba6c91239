package data

// FeatureGates controls optional features of a source.
type FeatureGates struct {
	// RelationDrillDown allows opening child lists from relation columns.
	RelationDrillDown bool `yaml:"relationDrillDown"`

	// AutoReload reloads the source when the file changes on disk.
	AutoReload bool `yaml:"autoReload"`
}

// NewFeatureGates creates FeatureGates with default settings.
func NewFeatureGates() FeatureGates {
	return FeatureGates{
		RelationDrillDown: true,
		AutoReload:        true,
	}
}
