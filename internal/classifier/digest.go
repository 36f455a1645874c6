package classifier

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math"
	"os"
)

// fastHashChunk is the read size for the digest pass. Large blocks keep
// the hash loop cheap on big files.
const fastHashChunk = 1 << 20 // 1 MB

// digestResult carries everything the single read pass produces: the
// fast primary digest for store lookups, the stronger secondary digest
// for record-keeping, and the byte histogram for entropy.
type digestResult struct {
	md5Hex    string
	sha256Hex string
	entropy   float64
	size      int64
}

// digestFile streams the file once, feeding both digests and the byte
// histogram from the same buffer.
func digestFile(path string) (digestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return digestResult{}, err
	}
	defer f.Close()

	fast := md5.New()
	strong := sha256.New()
	var counts [256]int64
	var total int64

	buf := make([]byte, fastHashChunk)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			fast.Write(chunk)
			strong.Write(chunk)
			for _, b := range chunk {
				counts[b]++
			}
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return digestResult{}, err
		}
	}

	return digestResult{
		md5Hex:    hex.EncodeToString(fast.Sum(nil)),
		sha256Hex: hex.EncodeToString(strong.Sum(nil)),
		entropy:   shannonEntropy(counts, total),
		size:      total,
	}, nil
}

// shannonEntropy computes entropy in bits per byte from a histogram.
func shannonEntropy(counts [256]int64, total int64) float64 {
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
