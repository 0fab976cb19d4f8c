// Package verify checks archived log files against sha256 sidecar digests.
// It is a pure batch verifier with no dependency on the analysis engine.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Status classifies one referenced archive.
type Status string

const (
	StatusOK       Status = "OK"
	StatusModified Status = "MODIFIED"
	StatusMissing  Status = "MISSING"
	StatusSkipped  Status = "SKIP"
	StatusError    Status = "ERROR"
)

// Result is the verdict for one archive referenced by a digest file, or for
// a digest file that could not be processed at all.
type Result struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	DigestFile string `json:"digest_file"`
	Err        error  `json:"-"`
}

// ParseDigestLine parses one sha256sum-format line: "<hex>  filename" or
// "<hex>  *filename". Comment lines (#) and malformed lines return ok=false
// and are skipped silently.
func ParseDigestLine(line string) (digest, name string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	sep := strings.IndexAny(line, " \t")
	if sep < 0 {
		return "", "", false
	}

	// sha256sum marks binary mode with a leading '*'
	name = strings.TrimSpace(line[sep:])
	name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
	if name == "" {
		return "", "", false
	}

	return line[:sep], name, true
}

// Dir verifies every digest file under dir matching pattern (for example
// "*.gz.sha256"). Unreadable digest files produce an ERROR result and empty
// ones a SKIP result; processing continues either way. A referenced archive
// that is absent is MISSING, not fatal.
func Dir(dir, pattern string) ([]Result, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("archive folder not found: %s", dir)
	}

	digestFiles, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad digest pattern %q: %w", pattern, err)
	}
	sort.Strings(digestFiles)

	var results []Result
	for _, df := range digestFiles {
		data, err := os.ReadFile(df)
		if err != nil {
			results = append(results, Result{
				Name:       filepath.Base(df),
				Status:     StatusError,
				DigestFile: filepath.Base(df),
				Err:        err,
			})
			continue
		}

		if len(data) == 0 {
			results = append(results, Result{
				Name:       filepath.Base(df),
				Status:     StatusSkipped,
				DigestFile: filepath.Base(df),
			})
			continue
		}

		for _, line := range strings.Split(string(data), "\n") {
			digest, name, ok := ParseDigestLine(line)
			if !ok {
				continue
			}
			results = append(results, checkArchive(dir, df, digest, name))
		}
	}

	return results, nil
}

func checkArchive(dir, digestFile, digest, name string) Result {
	res := Result{Name: name, DigestFile: filepath.Base(digestFile)}

	path := filepath.Join(dir, name)
	actual, err := hashFile(path)
	switch {
	case os.IsNotExist(err):
		res.Status = StatusMissing
	case err != nil:
		res.Status = StatusError
		res.Err = err
	case strings.EqualFold(actual, digest):
		res.Status = StatusOK
	default:
		res.Status = StatusModified
	}

	return res
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
