package template

// Root categories understood by Context.Dir.
const (
	RootInputs      = "inputs"
	RootOutputs     = "outputs"
	RootLightning   = "lightning"
	RootCheckpoints = "checkpoints"
	RootTensorboard = "tensorboard"
	RootLogs        = "logs"
	RootCache       = "cache"
	RootResources   = "resources"
)

// Roots lists every root category in display order.
var Roots = []string{
	RootInputs, RootOutputs, RootLightning, RootCheckpoints,
	RootTensorboard, RootLogs, RootCache, RootResources,
}

// Built-in template names.
const (
	Checkpoint     = "checkpoint"
	CheckpointDir  = "checkpoint_dir"
	Tensorboard    = "tensorboard"
	LightningLog   = "lightning_log"
	Log            = "log"
	CacheEntry     = "cache_entry"
	Figure         = "figure"
	Report         = "report"
	FilteredMatrix = "filtered_matrix"
	RawMatrix      = "raw_matrix"
)

// LightningTemplates returns the training-framework templates.
func LightningTemplates() Set {
	return Set{
		Checkpoint: {
			Name:    Checkpoint,
			Root:    RootCheckpoints,
			Pattern: Sequence("{name}"),
			Ext:     ".ckpt",
		},
		CheckpointDir: {
			Name:    CheckpointDir,
			Root:    RootCheckpoints,
			Pattern: Sequence(),
		},
		Tensorboard: {
			Name:    Tensorboard,
			Root:    RootTensorboard,
			Pattern: Sequence(),
		},
		LightningLog: {
			Name:    LightningLog,
			Root:    RootLightning,
			Base:    Under(RootLightning, "logs"),
			Pattern: Sequence("{name}"),
			Ext:     ".log",
		},
	}
}

func matrixFiles() map[string]string {
	return map[string]string{
		"matrix":   "matrix.mtx",
		"barcodes": "barcodes.tsv.gz",
		"features": "features.tsv.gz",
	}
}

// CoreTemplates returns the framework-independent templates.
func CoreTemplates() Set {
	return Set{
		Log: {
			Name:    Log,
			Root:    RootLogs,
			Pattern: Sequence("{name}"),
			Ext:     ".log",
		},
		CacheEntry: {
			Name:      CacheEntry,
			Root:      RootCache,
			Pattern:   Sequence("{name}"),
			Datestamp: Bool(false),
		},
		Figure: {
			Name:    Figure,
			Base:    Under(RootOutputs, "figures"),
			Pattern: Sequence("{name}"),
			Ext:     ".png",
		},
		Report: {
			Name:    Report,
			Base:    Under(RootOutputs, "reports"),
			Pattern: Sequence("{name}"),
			Ext:     ".html",
		},
		FilteredMatrix: {
			Name:    FilteredMatrix,
			Pattern: Mapping(matrixFiles()),
		},
		RawMatrix: {
			Name:    RawMatrix,
			Base:    Under(RootOutputs, "raw"),
			Pattern: Mapping(matrixFiles()),
		},
	}
}
