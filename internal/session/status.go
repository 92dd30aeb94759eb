package session

import (
	"os"
	"time"

	"github.com/illarion/ledgerlock/internal/meta"
)

// StatusInfo describes the store without requiring a password
type StatusInfo struct {
	StorePath     string
	StoreSize     int64
	Algorithm     string
	KDFIterations uint32
	LastModified  time.Time
}

// Status reports store presence and encryption parameters. It reads
// only the meta sidecar, so no password is required.
func (s *Session) Status() (*StatusInfo, error) {
	info, err := os.Stat(s.storePath)
	if err != nil {
		return nil, ErrNotInitialized
	}

	status := &StatusInfo{
		StorePath: s.storePath,
		StoreSize: info.Size(),
		Algorithm: "AES-256-GCM + SQLCipher",
	}

	m, err := meta.Open(s.metaPath)
	if err != nil {
		return status, nil // sidecar unreadable, report what we have
	}
	defer m.Close()

	if iterations, err := m.GetIterations(); err == nil {
		status.KDFIterations = iterations
	}
	if modified, err := m.GetModified(); err == nil {
		status.LastModified = modified
	}

	return status, nil
}
