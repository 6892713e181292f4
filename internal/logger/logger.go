package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — глобальный структурированный логгер процесса.
var Log *logrus.Logger

// Init настраивает глобальный логгер. Неизвестный уровень тихо заменяется
// на info. В development формат текстовый, во всех остальных окружениях —
// JSON.
func Init(level, env string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "development" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
}
