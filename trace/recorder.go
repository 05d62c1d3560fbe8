package trace

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Recorder collects named intermediate images. The zero value is not
// usable; construct with NewRecorder. A nil *Recorder is valid and records
// nothing. Methods are safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	dir    string
	made   bool
	seq    int
	names  []string
	images map[string]image.Image
	err    error
}

// NewRecorder returns a Recorder that keeps recorded images in memory.
// When dir is non-empty each image is also written there as a PNG named
// with a call-order prefix. The directory is created on first use.
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir, images: make(map[string]image.Image)}
}

// Record stores img under name. Recording the same name again replaces the
// in-memory image but still writes a fresh numbered file, so repeated
// passes of one stage all appear on disk. Nil receivers and nil images are
// ignored. Write failures do not interrupt the pipeline; the first one is
// kept and reported by Err.
func (r *Recorder) Record(name string, img image.Image) {
	if r == nil || img == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if _, seen := r.images[name]; !seen {
		r.names = append(r.names, name)
	}
	r.images[name] = img

	if r.dir == "" {
		return
	}
	if !r.made {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			if r.err == nil {
				r.err = fmt.Errorf("trace: create %s: %w", r.dir, err)
			}
			return
		}
		r.made = true
	}
	file := fmt.Sprintf("%03d-%s.png", r.seq, name)
	if err := imaging.Save(img, filepath.Join(r.dir, file)); err != nil && r.err == nil {
		r.err = fmt.Errorf("trace: save %s: %w", file, err)
	}
}

// Names returns the distinct recorded names in first-recorded order.
func (r *Recorder) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Image returns the most recent image recorded under name, or nil when the
// name was never recorded.
func (r *Recorder) Image(name string) image.Image {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.images[name]
}

// Err reports the first failure encountered while writing trace files.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
