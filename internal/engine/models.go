package engine

import "path/filepath"

// modelIDs lists the accepted model identifiers. "large" and "turbo" are
// aliases for the newest weights of their family.
var modelIDs = []string{
	"tiny.en", "tiny",
	"base.en", "base",
	"small.en", "small",
	"medium.en", "medium",
	"large-v1", "large-v2", "large-v3", "large",
	"large-v3-turbo", "turbo",
}

// modelAliases maps convenience names to the ggml weight file they load.
var modelAliases = map[string]string{
	"large": "large-v3",
	"turbo": "large-v3-turbo",
}

// Models returns the catalog of model identifiers accepted by engine.model
// and the set command.
func Models() []string {
	out := make([]string, len(modelIDs))
	copy(out, modelIDs)
	return out
}

// ValidModel reports whether id names a known model.
func ValidModel(id string) bool {
	for _, known := range modelIDs {
		if id == known {
			return true
		}
	}
	return false
}

// ModelPath returns the ggml weights file for a model id inside dir,
// following the whisper.cpp naming scheme (ggml-<id>.bin).
func ModelPath(dir, id string) string {
	if resolved, ok := modelAliases[id]; ok {
		id = resolved
	}
	return filepath.Join(dir, "ggml-"+id+".bin")
}
