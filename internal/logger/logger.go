package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — общий структурированный логгер приложения.
// Инициализируется дефолтами на уровне пакета, чтобы им можно было
// пользоваться и до вызова Init (в том числе в тестах).
var Log = logrus.New()

// Init настраивает уровень и JSON формат (для production).
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
