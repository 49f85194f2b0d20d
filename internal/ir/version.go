package ir

// Version constants recorded with every stored run.
const (
	// IRVersion is the result schema version.
	IRVersion = "1"

	// EngineVersion is the ludb engine version.
	EngineVersion = "0.1.0"
)
