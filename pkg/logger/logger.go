package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 控制日志输出格式与级别。
type Options struct {
	Production bool
	Level      string
}

// Init 初始化全局 logger。生产环境输出 JSON，其余环境使用带调用位置的控制台格式。
func Init(opts ...Options) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	if o.Production {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	if raw := strings.TrimSpace(o.Level); raw != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			log.Logger = log.Logger.Level(level)
		}
	}
}

// Component 返回带 component 字段的子 logger。
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
