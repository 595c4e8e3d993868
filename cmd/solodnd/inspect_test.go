package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gherrick0918/SoloDnDApp/bridge"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestServeBridge_OneResponsePerLine(t *testing.T) {
	b := bridge.New(zaptest.NewLogger(t))
	in := strings.NewReader("{\"op\":\"view\",\"handle\":\"missing\"}\n\n{\"op\":\"save\"}\n")
	var out bytes.Buffer

	require.NoError(t, serveBridge(b, in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	var resp bridge.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, bridge.CodeNotInitialized, resp.Error.Code)
	assert.Equal(t, 0, b.Outstanding())
}

func TestServeBridge_WriteFailure(t *testing.T) {
	b := bridge.New(zaptest.NewLogger(t))
	in := strings.NewReader("{\"op\":\"save\"}\n{\"op\":\"save\"}\n")

	err := serveBridge(b, in, failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write response: pipe closed")
	assert.Equal(t, 0, b.Outstanding(), "the failed response is still released")
}
