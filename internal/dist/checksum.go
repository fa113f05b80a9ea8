package dist

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// hexDigestLen is the length of a hex-encoded SHA-256 digest.
const hexDigestLen = 64

// Digest computes the SHA-256 digest of a file's full contents and
// returns it as a lowercase hex string.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChecksumRead, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChecksumRead, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyManifest reports whether any line of the checksum manifest
// begins with the expected digest. The manifest lists every artifact of
// a release as "<digest>  <filename>" lines; matching on the digest
// prefix alone avoids parsing filenames, and is acceptable because the
// manifest comes from a fixed publisher, not an untrusted source.
//
// A manifest with no matching line yields (false, nil), not an error.
// Only the first 64 characters of the trimmed expected digest are
// compared.
func VerifyManifest(manifestPath, expected string) (bool, error) {
	expected = strings.TrimSpace(expected)
	if len(expected) > hexDigestLen {
		expected = expected[:hexDigestLen]
	}
	if expected == "" {
		return false, nil
	}

	file, err := os.Open(manifestPath)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrChecksumRead, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, expected) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrChecksumRead, err)
	}

	return false, nil
}
