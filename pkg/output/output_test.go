package output

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSuccess(t *testing.T) {
	out := captureStdout(func() {
		Success("Wrote %d lines to %s", 5, "auth.log")
	})

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "Wrote 5 lines to auth.log")
}

func TestError(t *testing.T) {
	out := captureStderr(func() {
		Error("could not verify %s", "auth.log.gz")
	})

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "could not verify auth.log.gz")
}

func TestInfo(t *testing.T) {
	out := captureStdout(func() {
		Info("checked %d archives", 4)
	})

	assert.Contains(t, out, "checked 4 archives")
}

func TestWarn(t *testing.T) {
	out := captureStdout(func() {
		Warn("No digest files found")
	})

	assert.Contains(t, out, "⚠")
	assert.Contains(t, out, "No digest files found")
}

func TestJSON(t *testing.T) {
	out := captureStdout(func() {
		assert.NoError(t, JSON(map[string]int{"count": 3}))
	})

	assert.Contains(t, out, `"count": 3`)
}

func TestYAML(t *testing.T) {
	out := captureStdout(func() {
		assert.NoError(t, YAML(map[string]int{"count": 3}))
	})

	assert.Contains(t, out, "count: 3")
}
