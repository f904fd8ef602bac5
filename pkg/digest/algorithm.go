package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm identifies one of the supported digest algorithms. The zero value
// is not a member of the set and stands for "no algorithm".
type Algorithm int

const (
	SHA512_256 Algorithm = iota + 1
	SHA512
	SHA384
	SHA256
	SHA1
	MD5
)

type algorithmInfo struct {
	name string
	new  func() hash.Hash
}

// registry is the single dispatch point for names and factories. Order here
// is the display order returned by All.
var registry = [...]algorithmInfo{
	SHA512_256 - 1: {name: "SHA512/256", new: sha512.New512_256},
	SHA512 - 1:     {name: "SHA512", new: sha512.New},
	SHA384 - 1:     {name: "SHA384", new: sha512.New384},
	SHA256 - 1:     {name: "SHA256", new: sha256.New},
	SHA1 - 1:       {name: "SHA1", new: sha1.New},
	MD5 - 1:        {name: "MD5", new: md5.New},
}

// All returns every supported algorithm in display order. The returned slice
// is a fresh copy.
func All() []Algorithm {
	out := make([]Algorithm, 0, len(registry))
	for i := range registry {
		out = append(out, Algorithm(i+1))
	}
	return out
}

// FromIndex maps a selection index to an algorithm. Index 0 is reserved for
// "no algorithm selected"; index i selects All()[i-1]. The boolean is false
// for 0 and for any index outside the table.
func FromIndex(i int) (Algorithm, bool) {
	if i <= 0 || i > len(registry) {
		return 0, false
	}
	return Algorithm(i), true
}

// Valid reports whether a is a member of the supported set.
func (a Algorithm) Valid() bool {
	return a >= 1 && int(a) <= len(registry)
}

func (a Algorithm) info() algorithmInfo {
	if !a.Valid() {
		panic(fmt.Sprintf("digest: unknown algorithm %d", int(a)))
	}
	return registry[a-1]
}

// Name returns the canonical display name, e.g. "SHA512/256".
func (a Algorithm) Name() string {
	return a.info().name
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return a.Name()
}

// Index returns the selection index of a (1-based, 0 for invalid values).
func (a Algorithm) Index() int {
	if !a.Valid() {
		return 0
	}
	return int(a)
}

// New returns fresh hasher state for a. It performs no I/O and never fails
// for a supported algorithm.
func (a Algorithm) New() hash.Hash {
	return a.info().new()
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	return a.New().Size()
}

// BlockSize returns the algorithm's internal block size in bytes.
func (a Algorithm) BlockSize() int {
	return a.New().BlockSize()
}

// Parse resolves a user-supplied algorithm name. Matching ignores case and
// the separators "-", "_" and "/", so "sha-256", "sha512_256" and
// "SHA512/256" are all accepted.
func Parse(name string) (Algorithm, error) {
	key := normalizeName(name)
	if key == "" {
		return 0, NewUnknownAlgorithmError(name)
	}
	for i, info := range registry {
		if normalizeName(info.name) == key {
			return Algorithm(i + 1), nil
		}
	}
	return 0, NewUnknownAlgorithmError(name)
}

// Names returns the display names of All in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, info := range registry {
		out = append(out, info.name)
	}
	return out
}

func normalizeName(name string) string {
	r := strings.NewReplacer("-", "", "_", "", "/", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}
