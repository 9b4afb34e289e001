package fsx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CollisionPolicy controls what happens when the destination name is taken
// by a file with different content. Existing files are never overwritten.
type CollisionPolicy string

const (
	// CollisionSuffix appends _1, _2, ... before the extension.
	CollisionSuffix CollisionPolicy = "suffix"
	// CollisionSkip leaves the source in place.
	CollisionSkip CollisionPolicy = "skip"
)

// ParseCollisionPolicy validates a policy name. Empty means CollisionSuffix.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionSuffix:
		return CollisionSuffix, nil
	case CollisionSkip:
		return CollisionSkip, nil
	default:
		return "", fmt.Errorf("collision policy: unsupported value %q (want suffix or skip)", s)
	}
}

// Resolution describes how a destination path was settled.
type Resolution int

const (
	ResolutionFree      Resolution = iota // destination was free
	ResolutionRenamed                     // a counter suffix was added
	ResolutionSame                        // source already sits at the destination
	ResolutionDuplicate                   // identical content already at the destination
	ResolutionConflict                    // name taken and the policy says skip
)

func (r Resolution) String() string {
	switch r {
	case ResolutionFree:
		return "free"
	case ResolutionRenamed:
		return "renamed"
	case ResolutionSame:
		return "same"
	case ResolutionDuplicate:
		return "duplicate"
	case ResolutionConflict:
		return "conflict"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// maxSuffix bounds the counter search so a pathological tree cannot spin forever.
const maxSuffix = 10000

// Resolve settles the final destination for src given the wanted dst.
// Only ResolutionFree and ResolutionRenamed mean the caller should move.
func Resolve(src, dst string, policy CollisionPolicy) (string, Resolution, error) {
	if SamePath(src, dst) {
		return dst, ResolutionSame, nil
	}

	taken, dup, err := probe(src, dst)
	if err != nil {
		return "", 0, err
	}
	if !taken {
		return dst, ResolutionFree, nil
	}
	if dup {
		return dst, ResolutionDuplicate, nil
	}
	if policy == CollisionSkip {
		return dst, ResolutionConflict, nil
	}

	ext := filepath.Ext(dst)
	base := strings.TrimSuffix(dst, ext)
	for counter := 1; counter <= maxSuffix; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		taken, dup, err := probe(src, candidate)
		if err != nil {
			return "", 0, err
		}
		if !taken {
			return candidate, ResolutionRenamed, nil
		}
		if dup {
			return candidate, ResolutionDuplicate, nil
		}
	}
	return "", 0, fmt.Errorf("no free name for %s after %d attempts", dst, maxSuffix)
}

// probe reports whether path exists and whether it holds the same bytes as src.
func probe(src, path string) (taken, duplicate bool, err error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if !info.Mode().IsRegular() {
		return true, false, nil
	}
	same, err := SameContent(src, path)
	if err != nil {
		return true, false, err
	}
	return true, same, nil
}

// SameContent reports whether a and b have the same size and SHA-256 digest.
func SameContent(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ai.Size() != bi.Size() {
		return false, nil
	}
	ha, err := HashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := HashFile(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// HashFile returns the hex SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
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
