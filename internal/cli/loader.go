package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ludb/internal/compiler"
	"github.com/roach88/ludb/internal/ir"
)

// LoadResult contains the systems loaded from a specs directory.
type LoadResult struct {
	Systems   []*ir.SystemSpec
	CUEFiles  int // Number of CUE files found
	YAMLFiles int // Number of YAML files found
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands. Validation codes
// (E2xx) come from the compiler package.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE or YAML files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeYAMLFailed  = "E008" // YAML systems file failed to parse
	ErrCodeDuplicate   = "E009" // Two files define the same system
	ErrCodeNoSystems   = "E010" // Files parsed but define no system
	ErrCodeStoreFailed = "E011" // Database open/read/write failed
	ErrCodeBadFlag     = "E012" // Invalid flag value
)

// LoadSystems loads every system defined in dir: the CUE package formed by
// its .cue files first, then each .yaml/.yml file in name order.
// Subdirectories are not scanned.
func LoadSystems(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, yamlFiles, err := findSpecFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or YAML files found in %s", dir)}
	}

	result := &LoadResult{CUEFiles: len(cueFiles), YAMLFiles: len(yamlFiles)}
	origin := map[string]string{}
	add := func(file string, specs []*ir.SystemSpec) error {
		for _, s := range specs {
			if prev, ok := origin[s.Name]; ok {
				return &LoadError{
					Code:    ErrCodeDuplicate,
					Message: fmt.Sprintf("system %q defined in both %s and %s", s.Name, prev, file),
				}
			}
			origin[s.Name] = file
			result.Systems = append(result.Systems, s)
		}
		return nil
	}

	if len(cueFiles) > 0 {
		specs, err := loadCUE(dir)
		if err != nil {
			return nil, err
		}
		if err := add("CUE package", specs); err != nil {
			return nil, err
		}
	}

	for _, path := range yamlFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", path, err)}
		}
		specs, err := compiler.ParseYAMLSystems(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeYAMLFailed, Message: fmt.Sprintf("%s: %v", filepath.Base(path), err)}
		}
		if err := add(filepath.Base(path), specs); err != nil {
			return nil, err
		}
	}

	if len(result.Systems) == 0 {
		return nil, &LoadError{Code: ErrCodeNoSystems, Message: "no systems found in specs"}
	}
	return result, nil
}

// loadCUE builds the CUE package in dir and compiles its systems.
func loadCUE(dir string) ([]*ir.SystemSpec, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	specs, err := compiler.CompileSystems(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return specs, nil
}

// findSpecFiles lists the .cue and .yaml/.yml files directly in dir, sorted.
func findSpecFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch filepath.Ext(e.Name()) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
	}
	slices.Sort(cueFiles)
	slices.Sort(yamlFiles)
	return cueFiles, yamlFiles, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// loadErrorCode returns the code of a LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) (code, message string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
