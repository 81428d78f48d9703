package git

import (
	"context"
	"strings"
)

type call struct {
	dir  string
	args []string
}

// fakeRunner records commands and answers from a canned table keyed by the joined args
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	f.calls = append(f.calls, call{dir: dir, args: args})
	key := strings.Join(args, " ")
	return f.outputs[key], f.errs[key]
}
