package lib

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// JsonLogFormatter emits one JSON object per request so the access log can be
// ingested alongside the zerolog application log. Only routing metadata is
// logged; request bodies carry the text under analysis and must never appear
// in a log line.
func JsonLogFormatter(service string) gin.LogFormatter {
	return func(params gin.LogFormatterParams) string {
		logline := map[string]interface{}{
			"service": service,
			"time":    params.TimeStamp.UTC().Format("2006-01-02T15:04:05.999"),
			"status":  params.StatusCode,
			"latency": params.Latency.String(),
			"client":  params.ClientIP,
			"method":  params.Method,
			"path":    params.Path,
			"bytes":   params.BodySize,
		}
		if params.ErrorMessage != "" {
			logline["error"] = params.ErrorMessage
		}
		if len(params.Keys) > 0 {
			logline["context"] = params.Keys
		}
		b, _ := json.Marshal(logline)
		return string(b) + "\n"
	}
}
