package handlers

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, writeFile(path, string(data)))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
