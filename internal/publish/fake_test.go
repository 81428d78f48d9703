package publish

import (
	"context"
	"fmt"
)

// fakeRepo records the git operations a publish performs in order
type fakeRepo struct {
	hasMetadata bool
	pending     bool
	remotes     map[string]string
	stageErr    error
	errs        map[string]error

	calls []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{remotes: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeRepo) record(call string) error {
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeRepo) HasMetadata() (bool, error) {
	return f.hasMetadata, nil
}

func (f *fakeRepo) Init(context.Context) error {
	if err := f.record("init"); err != nil {
		return err
	}
	f.hasMetadata = true
	return nil
}

func (f *fakeRepo) StageAll(context.Context) error {
	f.calls = append(f.calls, "add")
	return f.stageErr
}

func (f *fakeRepo) HasPendingChanges(context.Context) (bool, error) {
	return f.pending, f.record("status")
}

func (f *fakeRepo) Commit(_ context.Context, message string) error {
	if err := f.record("commit"); err != nil {
		return err
	}
	f.calls[len(f.calls)-1] = fmt.Sprintf("commit %q", message)
	f.pending = false
	return nil
}

func (f *fakeRepo) HasRemote(_ context.Context, name string) (bool, error) {
	_, ok := f.remotes[name]
	return ok, f.record("remote")
}

func (f *fakeRepo) AddRemote(_ context.Context, name, url string) error {
	if err := f.record("remote add"); err != nil {
		return err
	}
	f.remotes[name] = url
	return nil
}

func (f *fakeRepo) ForceRenameBranch(_ context.Context, name string) error {
	if err := f.record("branch"); err != nil {
		return err
	}
	f.calls[len(f.calls)-1] = "branch -M " + name
	return nil
}

func (f *fakeRepo) PushUpstream(_ context.Context, remote, branch string) error {
	if err := f.record("push"); err != nil {
		return err
	}
	f.calls[len(f.calls)-1] = "push -u " + remote + " " + branch
	return nil
}
