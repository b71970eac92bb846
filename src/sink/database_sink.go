package sink

import (
	"context"
	"sync"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/models"
)

// DatabaseSink persists reports through an IDatabase. The connection is
// opened on first write so an unreachable database fails only this sink.
type DatabaseSink struct {
	name    string
	DB      interfaces.IDatabase
	once    sync.Once
	initErr error
}

func NewDatabaseSink(name string, db interfaces.IDatabase) *DatabaseSink {
	return &DatabaseSink{name: name, DB: db}
}

func (s *DatabaseSink) Name() string { return s.name }

func (s *DatabaseSink) Write(ctx context.Context, r *models.MReport) error {
	s.once.Do(func() { s.initErr = s.DB.Initialize() })
	if s.initErr != nil {
		return helpers.NewSinkError(s.name, s.initErr)
	}
	if err := s.DB.SaveReport(ctx, r); err != nil {
		return helpers.NewSinkError(s.name, err)
	}
	return nil
}

func (s *DatabaseSink) Close() error {
	return s.DB.Close()
}
