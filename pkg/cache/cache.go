/*
Package cache remembers decided verdicts across runs. Instances are keyed by
their item multiset, bin count and capacity, so permutations of the same items
share an entry. Witness packings are stored by size rank and mapped back to
the caller's item order on lookup.
*/
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/adrg/xdg"
	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/instance"
)

const formatVersion = 1

type Entry struct {
	Verdict api.Verdict `cbor:"1,keyasint"`
	// Bins holds the bin of the k-th largest item.
	Bins []int `cbor:"2,keyasint,omitempty"`
}

type file struct {
	Version int              `cbor:"1,keyasint"`
	Entries map[string]Entry `cbor:"2,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
}

// DefaultPath returns the cache file below $XDG_CACHE_HOME.
func DefaultPath() (string, error) {
	return xdg.CacheFile(filepath.Join("bpsolver", "verdicts.cbor"))
}

type VerdictCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	dirty   bool
}

// New creates an empty cache. With an empty path the cache lives in memory
// only.
func New(path string) *VerdictCache {
	return &VerdictCache{path: path, entries: map[string]Entry{}}
}

// Open loads the cache stored at path. A missing file yields an empty cache,
// an unreadable one is logged and ignored.
func Open(path string) (*VerdictCache, error) {
	c := New(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %v", path, err)
	}
	f := file{}
	if err := cbor.Unmarshal(data, &f); err != nil {
		logrus.Warnf("Ignoring unreadable cache file %s: %v", path, err)
		return c, nil
	}
	if f.Version != formatVersion {
		logrus.Warnf("Ignoring cache file %s with format version %d", path, f.Version)
		return c, nil
	}
	if f.Entries != nil {
		c.entries = f.Entries
	}
	logrus.Debugf("Loaded %d cached verdicts from %s", len(c.entries), path)
	return c, nil
}

// Key identifies an instance independent of its item order.
func Key(in *instance.Instance) string {
	h, _ := blake2b.New256(nil)
	buf := make([]byte, 0, 8*(in.Len()+2))
	buf = strconv.AppendInt(buf, int64(in.NumBins()), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(in.Capacity()), 10)
	for _, s := range in.Sorted() {
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(s), 10)
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached verdict for in and, for SAT verdicts with a
// stored witness, the packing in the item order of in.
func (c *VerdictCache) Lookup(in *instance.Instance) (api.Verdict, []int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[Key(in)]
	if !ok {
		return "", nil, false
	}
	var assignment []int
	if e.Verdict == api.VerdictSat && len(e.Bins) == in.Len() {
		assignment = make([]int, in.Len())
		for k, i := range in.Order() {
			assignment[i] = e.Bins[k]
		}
	}
	return e.Verdict, assignment, true
}

// Store records a decided verdict. UNKNOWN verdicts are not cached.
func (c *VerdictCache) Store(in *instance.Instance, verdict api.Verdict, assignment []int) {
	if verdict != api.VerdictSat && verdict != api.VerdictUnsat {
		return
	}
	e := Entry{Verdict: verdict}
	if verdict == api.VerdictSat && len(assignment) == in.Len() {
		e.Bins = make([]int, in.Len())
		for k, i := range in.Order() {
			e.Bins[k] = assignment[i]
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(in)] = e
	c.dirty = true
}

func (c *VerdictCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *VerdictCache) Path() string {
	return c.path
}

// Save writes the cache to its file if anything changed.
func (c *VerdictCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" || !c.dirty {
		return nil
	}
	data, err := encMode.Marshal(file{Version: formatVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("failed to encode cache: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0770); err != nil {
		return fmt.Errorf("failed to create cache directory for %s: %v", c.path, err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0660); err != nil {
		return fmt.Errorf("failed to write file %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file %s: %v", c.path, err)
	}
	c.dirty = false
	return nil
}

// Clear drops all entries and removes the cache file.
func (c *VerdictCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]Entry{}
	c.dirty = false
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file %s: %v", c.path, err)
	}
	return nil
}
