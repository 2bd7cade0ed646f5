package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	log *logrus.Logger
	Log *logrus.Entry
)

// This init is needed for test binaries, where the entry point is not main
// and nobody calls Init explicitly.
func init() {
	Init()
}

func Init() {
	log = logrus.New()
	log.SetOutput(os.Stderr)

	if os.Getenv("APP_ENV") == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = log.WithFields(logrus.Fields{
		"service": "emotion-board",
	})
}
