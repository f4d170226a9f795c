package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "stationeryhub.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options 日志输出配置；零值字段取默认值
type Options struct {
	Dir        string
	Filename   string
	Level      string // debug / info / warn / error，空值按运行模式决定
	Stdout     bool   // release 模式下同时输出到控制台（容器部署）
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var global atomic.Pointer[zap.Logger]

// Init 按运行模式创建日志并设为全局实例（含 zap.L()）
func Init(mode string, options Options) *zap.Logger {
	l := New(mode, options)
	global.Store(l)
	zap.ReplaceGlobals(l)
	return l
}

// New debug 模式输出彩色控制台日志；其余模式写入滚动的 JSON 文件
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := parseLevel(options.Level, debug)
	if debug {
		return build(level, consoleCore(level))
	}

	cores := make([]zapcore.Core, 0, 2)
	ws, err := fileSyncer(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, writing to stdout instead\n", err)
		options.Stdout = true
	} else {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, level))
	}
	if options.Stdout {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(os.Stdout), level))
	}
	return build(level, zapcore.NewTee(cores...))
}

// NewWriter JSON 日志写入 w（命令行工具与测试使用）
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	return build(level, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), level))
}

// StdLogger 适配标准库 log 的 logger（gorm 日志、命令行输出）
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z().WithOptions(zap.AddCallerSkip(-1)))
}

// Z 全局 logger，未 Init 时为 info 级别控制台输出
func Z() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l := build(zap.InfoLevel, consoleCore(zap.InfoLevel))
	if global.CompareAndSwap(nil, l) {
		return l
	}
	return global.Load()
}

// S 全局 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }

func parseLevel(raw string, debug bool) zapcore.Level {
	if level, err := zapcore.ParseLevel(strings.TrimSpace(raw)); err == nil && raw != "" {
		return level
	}
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func consoleCore(level zapcore.Level) zapcore.Core {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stdout), level)
}

// build 包级 Debugw 等函数多一层调用，caller 需跳过一帧
func build(level zapcore.Level, core zapcore.Core) *zap.Logger {
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if level <= zap.DebugLevel {
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	}
	return zap.New(core, opts...)
}

func fileSyncer(options Options) (zapcore.WriteSyncer, error) {
	path, err := resolveLogFilePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultLogMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   options.Compress,
	}), nil
}

// resolveLogFilePath 确保目录存在且文件可写，未配置目录时使用 ./logs
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	filename := strings.TrimSpace(options.Filename)
	if filename == "" {
		filename = defaultLogFilename
	}
	path := filepath.Join(dir, filename)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, file.Close()
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
