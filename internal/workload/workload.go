// Package workload generates key access sequences and replays them against
// a cache, read-through style: Get, and Put on a miss.
package workload

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Uniform returns n keys drawn uniformly from [1, keys].
func Uniform(r *rand.Rand, keys, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1 + r.Intn(keys)
	}
	return out
}

// Zipf returns n keys from [1, keys] with Zipf skew s (> 1); low keys are hot.
func Zipf(r *rand.Rand, s float64, keys, n int) []int {
	out := make([]int, n)
	if keys < 2 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	z := rand.NewZipf(r, s, 1, uint64(keys-1))
	for i := range out {
		out[i] = 1 + int(z.Uint64())
	}
	return out
}

// Scan returns n keys cycling through [1, keys] in order. A loop larger
// than the cache is the classic LRU worst case.
func Scan(keys, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1 + i%keys
	}
	return out
}

// Phased concatenates sequences, e.g. a skewed phase followed by a scan.
func Phased(parts ...[]int) []int {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]int, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Params selects and sizes a generated sequence.
type Params struct {
	// Name is one of uniform, zipf, scan, phased or manual.
	Name     string
	Keys     int
	Ops      int
	ZipfS    float64
	Sequence string // manual only
}

// Build generates the sequence named by p.Name. The phased workload is a
// skewed third, a scan over twice the keyspace, then a skewed third again.
func Build(r *rand.Rand, p Params) ([]int, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	switch p.Name {
	case "uniform":
		return Uniform(r, p.Keys, p.Ops), nil
	case "zipf":
		return Zipf(r, p.ZipfS, p.Keys, p.Ops), nil
	case "scan":
		return Scan(p.Keys, p.Ops), nil
	case "phased":
		third := p.Ops / 3
		return Phased(
			Zipf(r, p.ZipfS, p.Keys, third),
			Scan(2*p.Keys, p.Ops-2*third),
			Zipf(r, p.ZipfS, p.Keys, third),
		), nil
	case "manual":
		return ParseSequence(p.Sequence)
	}
	return nil, fmt.Errorf("workload: unknown workload %q", p.Name)
}

func (p Params) validate() error {
	switch p.Name {
	case "manual":
		return nil
	case "uniform", "zipf", "scan", "phased":
	default:
		return fmt.Errorf("workload: unknown workload %q", p.Name)
	}
	if p.Keys < 1 || p.Ops < 0 {
		return fmt.Errorf("workload: %s: keys=%d ops=%d: keys must be >= 1 and ops >= 0", p.Name, p.Keys, p.Ops)
	}
	if (p.Name == "zipf" || p.Name == "phased") && p.ZipfS <= 1 {
		return fmt.Errorf("workload: %s: zipf s must be > 1, got %v", p.Name, p.ZipfS)
	}
	return nil
}

// ParseSequence parses a comma-separated list of integer keys such as
// "1,2,3,2,1". Blank items are skipped.
func ParseSequence(s string) ([]int, error) {
	var out []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		k, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("workload: bad key %q: %w", item, err)
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("workload: empty sequence %q", s)
	}
	return out, nil
}

// Cache is the slice of the cache API the driver needs.
type Cache[V any] interface {
	Get(k int) (V, bool)
	Put(k int, v V)
}

// Result counts what the driver saw.
type Result struct {
	Ops    int
	Hits   int
	Misses int
}

// Run replays seq: each key is read, and a miss is filled with value(k).
func Run[V any](c Cache[V], seq []int, value func(k int) V) Result {
	var res Result
	for _, k := range seq {
		res.Ops++
		if _, ok := c.Get(k); ok {
			res.Hits++
			continue
		}
		res.Misses++
		c.Put(k, value(k))
	}
	return res
}
