package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/gridwright/internal/design"
)

// LoadError represents an error that occurred during design loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDesign loads every .cue file in a directory, unifies them and compiles
// the design struct. Multiple files form one document; CUE unification merges
// their contributions.
func LoadDesign(dir string) (*design.Design, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("design directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing design directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no .cue files in %s", dir)}
	}

	insts := load.Instances(files, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return nil, &LoadError{Code: ErrCodeCompile, Message: "no CUE instances loaded"}
	}
	if insts[0].Err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: insts[0].Err.Error()}
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(insts[0])
	if v.Err() != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: v.Err().Error()}
	}

	d, err := design.CompileDesign(v.LookupPath(cue.ParsePath("design")))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: err.Error()}
	}
	return d, nil
}

// findCUEFiles returns the directory's .cue files in sorted order for
// deterministic unification.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read design directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".cue" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
