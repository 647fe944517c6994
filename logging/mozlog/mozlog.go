// Package mozlog implements a logging destination producing mozlog-format
// JSON lines, suitable for log aggregation pipelines that consume that shape.
package mozlog

import (
	"os"

	mozlogrus "github.com/mozilla-services/go-mozlogrus"
	"github.com/sirupsen/logrus"

	"github.com/forgerun/runner-lifecycle/cfg"
	"github.com/forgerun/runner-lifecycle/logging/logging"
)

type mozlogDestination struct {
	logger *logrus.Logger
}

func (dst *mozlogDestination) LogUnstructured(message string) {
	dst.logger.Info(message)
}

func (dst *mozlogDestination) LogStructured(message map[string]interface{}) {
	payload := ""
	if p, ok := message["textPayload"].(string); ok {
		payload = p
		delete(message, "textPayload")
	}
	dst.logger.WithFields(logrus.Fields(message)).Info(payload)
}

func New(runnercfg *cfg.RunnerConfig) logging.Logger {
	loggerName := "start-runner"
	if runnercfg.Logging != nil {
		if n, ok := runnercfg.Logging.Data["loggerName"].(string); ok {
			loggerName = n
		}
	}

	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &mozlogrus.MozLogFormatter{
		LoggerName: loggerName,
	}

	return &mozlogDestination{logger: logger}
}

func Usage() string {
	return `

The "mozlog" logging implementation writes JSON lines in mozlog format to
stderr.  It takes an optional loggerName property:

` + "```yaml" + `
logging:
	implementation: mozlog
	loggerName: start-runner
` + "```" + `

`
}
