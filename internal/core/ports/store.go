package ports

import "go.trai.ch/ndkdeps/internal/core/domain"

// BuildRecordStore defines the interface for the run ledger.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the record of project built for abi.
	// Returns nil, nil if not found.
	Get(abi, project string) (*domain.BuildRecord, error)

	// Put stores the record.
	Put(record domain.BuildRecord) error
}

// LedgerOpener opens the run ledger stored at a path.
type LedgerOpener interface {
	Open(path string) (BuildRecordStore, error)
}
