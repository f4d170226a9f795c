package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stationeryhub/internal/app"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorCyan  = "\033[36m"
	colorMag   = "\033[95m"
)

var bannerArt = []string{
	`  ___ _        _   _                          _  _      _    `,
	` / __| |_ __ _| |_(_)___ _ _  ___ _ _ _  _   | || |_  _| |__ `,
	` \__ \  _/ _' |  _| / _ \ ' \/ -_) '_| || |  | __ | || | '_ \`,
	` |___/\__\__,_|\__|_\___/_||_\___|_|  \_, |  |_||_|\_,_|_.__/`,
	`                                      |__/                   `,
}

func main() {
	mode := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printBanner(*mode)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	release := cfg.Server.Mode == "release"

	if weak := cfg.WeakSecrets(); len(weak) > 0 {
		if release {
			stdLog.Fatalf("弱密钥不可用于生产环境: %s", strings.Join(weak, ", "))
		}
		stdLog.Printf("警告: %s 过弱或仍为默认值，上线前请更换", strings.Join(weak, ", "))
	}

	password := os.Getenv("SH_DEFAULT_ADMIN_PASSWORD")
	seed := app.AdminSeed{
		Username: os.Getenv("SH_DEFAULT_ADMIN_USERNAME"),
		Password: password,
		Skip:     release && password == "",
	}
	if seed.Skip {
		stdLog.Printf("警告: 未设置 SH_DEFAULT_ADMIN_PASSWORD，已跳过默认管理员初始化")
	}
	if err := app.PrepareDatabase(cfg.Database, seed); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    *mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printBanner(mode string) {
	for _, line := range bannerArt {
		fmt.Println(colorCyan + line + colorReset)
	}
	fmt.Printf("%s%sStationeryHub%s %s(mode=%s)%s\n", colorMag, colorBold, colorReset, colorDim, mode, colorReset)
	fmt.Println(colorDim + "api: /api/v1  legacy: /product/get /admin/login /admin/orders /upload  uploads: /uploads" + colorReset)
}
