package logging

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchLogger(t *testing.T) {
	oldLogDestination := Destination
	defer func() { Destination = oldLogDestination }()
	logDest := &TestLogDestination{}
	Destination = logDest

	stdLog := log.New(os.Stderr, "", log.LstdFlags)
	PatchStdLogger(stdLog)

	t.Run("single-line println", func(t *testing.T) {
		defer logDest.Clear()
		stdLog.Println("hello, world!")
		require.Equal(t, logDest.Messages(), []map[string]any{{"textPayload": "hello, world!"}})
	})

	t.Run("multi-line println", func(t *testing.T) {
		defer logDest.Clear()
		stdLog.Println("hello\ncruel\nworld!")
		require.Equal(t, logDest.Messages(), []map[string]any{{"textPayload": "hello\ncruel\nworld!"}})
	})
}
