package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestBaseLoggerCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer

	logger := newBaseLogger(&buf)
	logger.Info().Msg("boot")

	line := buf.String()
	if !strings.Contains(line, `"service":"uniconnect"`) {
		t.Errorf("log line missing service field: %s", line)
	}
	if !strings.Contains(line, `"message":"boot"`) {
		t.Errorf("log line missing message: %s", line)
	}
}
