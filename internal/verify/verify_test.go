package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func writeDigestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseDigestLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		digest string
		fname  string
	}{
		{"standard", "abc123  auth.log.gz", true, "abc123", "auth.log.gz"},
		{"binary mode star", "abc123  *auth.log.gz", true, "abc123", "auth.log.gz"},
		{"tab separated", "abc123\tauth.log.gz", true, "abc123", "auth.log.gz"},
		{"comment", "# a comment", false, "", ""},
		{"empty", "", false, "", ""},
		{"blank", "   ", false, "", ""},
		{"digest only", "abc123", false, "", ""},
		{"star only name", "abc123  *", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, fname, ok := ParseDigestLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.digest, digest)
				assert.Equal(t, tt.fname, fname)
			}
		})
	}
}

func TestDirOKModifiedMissing(t *testing.T) {
	dir := t.TempDir()

	okDigest := writeArchive(t, dir, "good.log.gz", []byte("intact content"))
	writeArchive(t, dir, "bad.log.gz", []byte("tampered content"))

	writeDigestFile(t, dir, "good.log.gz.sha256", fmt.Sprintf("%s  good.log.gz\n", okDigest))
	writeDigestFile(t, dir, "bad.log.gz.sha256", fmt.Sprintf("%064d  bad.log.gz\n", 0))
	writeDigestFile(t, dir, "gone.log.gz.sha256", fmt.Sprintf("%064d  gone.log.gz\n", 0))

	results, err := Dir(dir, "*.gz.sha256")
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := map[string]Status{}
	for _, r := range results {
		byName[r.Name] = r.Status
	}
	assert.Equal(t, StatusModified, byName["bad.log.gz"])
	assert.Equal(t, StatusOK, byName["good.log.gz"])
	assert.Equal(t, StatusMissing, byName["gone.log.gz"])
}

func TestDirSkipsCommentsAndMalformed(t *testing.T) {
	dir := t.TempDir()
	digest := writeArchive(t, dir, "a.log.gz", []byte("data"))

	writeDigestFile(t, dir, "a.log.gz.sha256",
		"# header comment\n"+
			"malformed-no-filename\n"+
			"\n"+
			digest+"  a.log.gz\n")

	results, err := Dir(dir, "*.gz.sha256")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOK, results[0].Status)
}

func TestDirEmptyDigestFileSkipped(t *testing.T) {
	dir := t.TempDir()
	digest := writeArchive(t, dir, "a.log.gz", []byte("data"))

	writeDigestFile(t, dir, "a.log.gz.sha256", fmt.Sprintf("%s  a.log.gz\n", digest))
	writeDigestFile(t, dir, "empty.log.gz.sha256", "")

	results, err := Dir(dir, "*.gz.sha256")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]Status{}
	for _, r := range results {
		byName[r.Name] = r.Status
	}
	assert.Equal(t, StatusOK, byName["a.log.gz"])
	assert.Equal(t, StatusSkipped, byName["empty.log.gz.sha256"], "empty digest file is reported, not dropped")
}

func TestDirMissingFolder(t *testing.T) {
	_, err := Dir(filepath.Join(t.TempDir(), "nope"), "*.gz.sha256")
	assert.Error(t, err)
}

func TestDirNoDigestFiles(t *testing.T) {
	results, err := Dir(t.TempDir(), "*.gz.sha256")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDigestComparisonCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	digest := writeArchive(t, dir, "a.log.gz", []byte("data"))

	writeDigestFile(t, dir, "a.log.gz.sha256", fmt.Sprintf("%s  a.log.gz\n", strings.ToUpper(digest)))

	results, err := Dir(dir, "*.gz.sha256")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOK, results[0].Status)
}
