package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/maintenance"
)

type call struct {
	step   string
	args   []string
	dryRun bool
}

type fakeSteps struct {
	calls []call
	err   error
}

func (f *fakeSteps) done(step string, dryRun bool, args ...string) (*maintenance.Result, error) {
	f.calls = append(f.calls, call{step: step, args: args, dryRun: dryRun})
	return &maintenance.Result{Affected: 1}, f.err
}

func (f *fakeSteps) Migrate(context.Context) (*maintenance.Result, error) {
	return f.done(maintenance.StepMigrate, false)
}
func (f *fakeSteps) NormalizeYears(_ context.Context, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepNormalizeYears, dryRun)
}
func (f *fakeSteps) NormalizeRefs(_ context.Context, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepNormalizeRefs, dryRun)
}
func (f *fakeSteps) BackfillAssignmentDepartments(_ context.Context, source string, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepBackfillDepts, dryRun, source)
}
func (f *fakeSteps) DeleteOrphanAssignments(_ context.Context, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepDeleteOrphans, dryRun)
}
func (f *fakeSteps) PromoteHOD(_ context.Context, email, dept string, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepPromoteHOD, dryRun, email, dept)
}
func (f *fakeSteps) AddAdmin(_ context.Context, email, name, pwd string, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepAddAdmin, dryRun, email, name, pwd)
}
func (f *fakeSteps) CopyDB(_ context.Context, src, dst string, dryRun bool) (*maintenance.Result, error) {
	return f.done(maintenance.StepCopyDB, dryRun, src, dst)
}

func setup() (*commandLine, *fakeSteps, *bytes.Buffer) {
	f := &fakeSteps{}
	out := &bytes.Buffer{}
	return &commandLine{steps: f, out: out}, f, out
}

func Test_commandLine_run(t *testing.T) {
	readPasswordFunc = func(int) ([]byte, error) { return []byte("S3cure-pass"), nil }

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantStep string
		wantArgs []string
		wantDry  bool
	}{
		{name: "no step", wantErr: errHelp},
		{name: "unknown step", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"normalize-years", "-h"}, wantErr: errHelp},
		{name: "migrate", args: []string{"migrate"}, wantStep: maintenance.StepMigrate},
		{name: "normalize dry-run", args: []string{"normalize-years", "-dry-run"}, wantStep: maintenance.StepNormalizeYears, wantDry: true},
		{name: "normalize refs", args: []string{"normalize-refs"}, wantStep: maintenance.StepNormalizeRefs},
		{name: "backfill without source", args: []string{"backfill-assignment-departments"}, wantErr: errHelp},
		{name: "backfill links", args: []string{"backfill-assignment-departments", "-source=links"}, wantStep: maintenance.StepBackfillDepts, wantArgs: []string{"links"}},
		{name: "delete orphans", args: []string{"delete-orphan-assignments", "-dry-run"}, wantStep: maintenance.StepDeleteOrphans, wantDry: true},
		{name: "promote-hod missing dept", args: []string{"promote-hod", "-email", "a@b.c"}, wantErr: errHelp},
		{name: "promote-hod", args: []string{"promote-hod", "-email", "a@b.c", "-department", "d-1"}, wantStep: maintenance.StepPromoteHOD, wantArgs: []string{"a@b.c", "d-1"}},
		{name: "add-admin missing name", args: []string{"add-admin", "-email", "a@b.c"}, wantErr: errHelp},
		{name: "add-admin", args: []string{"add-admin", "-email", "a@b.c", "-name", "root"}, wantStep: maintenance.StepAddAdmin, wantArgs: []string{"a@b.c", "root", "S3cure-pass"}},
		{name: "copy-db missing target", args: []string{"copy-db", "-source-dsn", "postgres://a"}, wantErr: errHelp},
		{name: "copy-db", args: []string{"copy-db", "-source-dsn", "postgres://a", "-target-dsn", "postgres://b", "-dry-run"}, wantStep: maintenance.StepCopyDB, wantArgs: []string{"postgres://a", "postgres://b"}, wantDry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, f, _ := setup()
			err := cli.run(context.Background(), tt.args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				if len(f.calls) != 0 {
					t.Errorf("出错时不应执行步骤: %+v", f.calls)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			if len(f.calls) != 1 {
				t.Fatalf("期望执行 1 个步骤，实际: %d", len(f.calls))
			}
			got := f.calls[0]
			if got.step != tt.wantStep || got.dryRun != tt.wantDry || strings.Join(got.args, ",") != strings.Join(tt.wantArgs, ",") {
				t.Errorf("期望 %s %v dry=%v，实际: %+v", tt.wantStep, tt.wantArgs, tt.wantDry, got)
			}
		})
	}
}

func Test_commandLine_addAdminEmptyPassword(t *testing.T) {
	readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
	cli, f, _ := setup()

	if err := cli.run(context.Background(), []string{"add-admin", "-email", "a@b.c", "-name", "root"}); err != errHelp {
		t.Errorf("空密码应返回 errHelp，实际: %v", err)
	}
	if len(f.calls) != 0 {
		t.Error("空密码不应执行步骤")
	}
}

func Test_commandLine_stepError(t *testing.T) {
	cli, f, out := setup()
	f.err = errors.New("boom")

	if err := cli.run(context.Background(), []string{"migrate"}); err == nil || err.Error() != "boom" {
		t.Errorf("期望透传步骤错误，实际: %v", err)
	}
	if strings.Contains(out.String(), "完成") {
		t.Error("失败时不应输出完成信息")
	}
}
