package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapprofile/internal/controller"
)

// DefaultDownloadTTL is how long a finished report stays downloadable.
const DefaultDownloadTTL = 15 * time.Minute

type pendingDownload struct {
	download *controller.Download
	expires  time.Time
}

// Downloads hands finished reports to the browser. A token can be fetched
// any number of times until it expires after the TTL.
type Downloads struct {
	mu      sync.Mutex
	pending map[string]pendingDownload
	ttl     time.Duration
	now     func() time.Time
}

// NewDownloads creates a handoff table. A non-positive ttl uses
// DefaultDownloadTTL.
func NewDownloads(ttl time.Duration) *Downloads {
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}
	return &Downloads{
		pending: make(map[string]pendingDownload),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores d and returns its token.
func (d *Downloads) Put(dl *controller.Download) string {
	token := uuid.NewString()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked()
	d.pending[token] = pendingDownload{download: dl, expires: d.now().Add(d.ttl)}
	return token
}

// Get returns the download for token while it has not expired.
func (d *Downloads) Get(token string) (*controller.Download, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[token]
	if !ok {
		return nil, false
	}
	if d.now().After(p.expires) {
		delete(d.pending, token)
		return nil, false
	}
	return p.download, true
}

// Len returns the number of stored downloads, expired or not.
func (d *Downloads) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Downloads) pruneLocked() {
	now := d.now()
	for token, p := range d.pending {
		if now.After(p.expires) {
			delete(d.pending, token)
		}
	}
}
