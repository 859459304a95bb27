// maint 维护命令行：迁移、历史数据修复与账号初始化。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/config"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/maintenance"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/database"
	applogger "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config.yaml）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		return 1
	}
	defer applogger.Flush()
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Error("数据库连接失败", zap.Error(err))
		return 1
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &commandLine{
		steps: maintenance.NewRunner(db, repository.NewRepository(db), logger),
		out:   os.Stdout,
	}
	if err := cli.run(ctx, flag.Args()); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}
