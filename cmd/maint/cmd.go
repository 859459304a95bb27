package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/maintenance"
)

var (
	readPasswordFunc = term.ReadPassword // 测试中替换

	errHelp = errors.New("help provided")
)

// steps 维护步骤（*maintenance.Runner 实现）
type steps interface {
	Migrate(ctx context.Context) (*maintenance.Result, error)
	NormalizeYears(ctx context.Context, dryRun bool) (*maintenance.Result, error)
	NormalizeRefs(ctx context.Context, dryRun bool) (*maintenance.Result, error)
	BackfillAssignmentDepartments(ctx context.Context, source string, dryRun bool) (*maintenance.Result, error)
	DeleteOrphanAssignments(ctx context.Context, dryRun bool) (*maintenance.Result, error)
	PromoteHOD(ctx context.Context, email, departmentID string, dryRun bool) (*maintenance.Result, error)
	AddAdmin(ctx context.Context, email, name, password string, dryRun bool) (*maintenance.Result, error)
	CopyDB(ctx context.Context, sourceDSN, targetDSN string, dryRun bool) (*maintenance.Result, error)
}

type commandLine struct {
	steps steps
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "用法: maint [-config PATH] <step> [flags]")
	fmt.Fprintln(cli.out, "  migrate                                       执行数据库迁移")
	fmt.Fprintln(cli.out, "  normalize-years [-dry-run]                    将遗留的 'null' 学年改为 NULL")
	fmt.Fprintln(cli.out, "  normalize-refs [-dry-run]                     引用列统一为小写 UUID 文本")
	fmt.Fprintln(cli.out, "  backfill-assignment-departments -source=staff|links [-dry-run]")
	fmt.Fprintln(cli.out, "                                                回填任课分配院系")
	fmt.Fprintln(cli.out, "  delete-orphan-assignments [-dry-run]          删除引用失效的任课分配")
	fmt.Fprintln(cli.out, "  promote-hod -email EMAIL -department ID [-dry-run]")
	fmt.Fprintln(cli.out, "  add-admin -email EMAIL -name NAME [-dry-run]  密码从终端读取")
	fmt.Fprintln(cli.out, "  copy-db -source-dsn DSN -target-dsn DSN [-dry-run]")
}

func (cli *commandLine) newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	dryRun := fs.Bool("dry-run", false, "只统计不修改")
	return fs, dryRun
}

// run 执行一个子命令；args[0] 为步骤名
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	step, rest := args[0], args[1:]
	fs, dryRun := cli.newFlagSet(step)

	var (
		source    = fs.String("source", "", "回填来源: staff | links")
		email     = fs.String("email", "", "用户邮箱")
		name      = fs.String("name", "", "管理员姓名")
		dept      = fs.String("department", "", "院系 ID")
		sourceDSN = fs.String("source-dsn", "", "源数据库 DSN")
		targetDSN = fs.String("target-dsn", "", "目标数据库 DSN")
	)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}

	var (
		res *maintenance.Result
		err error
	)
	switch step {
	case maintenance.StepMigrate:
		res, err = cli.steps.Migrate(ctx)
	case maintenance.StepNormalizeYears:
		res, err = cli.steps.NormalizeYears(ctx, *dryRun)
	case maintenance.StepNormalizeRefs:
		res, err = cli.steps.NormalizeRefs(ctx, *dryRun)
	case maintenance.StepBackfillDepts:
		if *source == "" {
			fs.Usage()
			return errHelp
		}
		res, err = cli.steps.BackfillAssignmentDepartments(ctx, *source, *dryRun)
	case maintenance.StepDeleteOrphans:
		res, err = cli.steps.DeleteOrphanAssignments(ctx, *dryRun)
	case maintenance.StepPromoteHOD:
		if *email == "" || *dept == "" {
			fs.Usage()
			return errHelp
		}
		res, err = cli.steps.PromoteHOD(ctx, *email, *dept, *dryRun)
	case maintenance.StepAddAdmin:
		if *email == "" || *name == "" {
			fs.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "请输入密码: ")
		pwd, rErr := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if rErr != nil {
			return rErr
		}
		if len(pwd) == 0 {
			fs.Usage()
			return errHelp
		}
		res, err = cli.steps.AddAdmin(ctx, *email, *name, string(pwd), *dryRun)
	case maintenance.StepCopyDB:
		if *sourceDSN == "" || *targetDSN == "" {
			fs.Usage()
			return errHelp
		}
		res, err = cli.steps.CopyDB(ctx, *sourceDSN, *targetDSN, *dryRun)
	default:
		cli.printUsage()
		return errHelp
	}
	if err != nil {
		return err
	}

	cli.report(step, *dryRun, res)
	return nil
}

func (cli *commandLine) report(step string, dryRun bool, res *maintenance.Result) {
	mode := ""
	if dryRun {
		mode = "（dry-run）"
	}
	fmt.Fprintf(cli.out, "%s%s 完成，影响 %d 行\n", step, mode, res.Affected)
}
