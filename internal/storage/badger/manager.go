package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lustro/internal/common"
	"github.com/ternarybob/lustro/internal/interfaces"
	"github.com/ternarybob/lustro/internal/models"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	document interfaces.DocumentStorage
	chunk    interfaces.ChunkStorage
	audit    interfaces.AuditStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		document: NewDocumentStorage(db, logger),
		chunk:    NewChunkStorage(db, logger),
		audit:    NewAuditStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// ChunkStorage returns the Chunk storage interface
func (m *Manager) ChunkStorage() interfaces.ChunkStorage {
	return m.chunk
}

// AuditStorage returns the approval decision audit trail
func (m *Manager) AuditStorage() interfaces.AuditStorage {
	return m.audit
}

// Stats reports record counts across both collections
func (m *Manager) Stats() (*models.DocumentStats, error) {
	docs, err := m.document.CountDocuments()
	if err != nil {
		return nil, err
	}
	chunks, err := m.chunk.CountChunks()
	if err != nil {
		return nil, err
	}
	return &models.DocumentStats{
		TotalDocuments: docs,
		TotalChunks:    chunks,
		LastUpdated:    time.Now(),
	}, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
