package buffer

// redis key patterns
const (
	// material:{materialID}:counters - hash of pending counter increments
	keyMaterialCounters = "material:%s:counters"

	// dirty_materials - set of material IDs with unflushed counters
	keyDirtyMaterials = "dirty_materials"

	// hash fields
	fieldViews     = "views"
	fieldDownloads = "downloads"
)
