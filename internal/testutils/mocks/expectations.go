// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/arena/internal/repositories/battles"
	battlesmock "github.com/KirkDiggler/arena/internal/repositories/battles/mock"
)

// SavedRecords collects the records a mocked repository was asked to save
type SavedRecords struct {
	Records []*battles.Record
}

// Last returns the most recently saved record, or nil
func (s *SavedRecords) Last() *battles.Record {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[len(s.Records)-1]
}

// ForBattle returns the saved records of one battle in save order
func (s *SavedRecords) ForBattle(id string) []*battles.Record {
	var out []*battles.Record
	for _, r := range s.Records {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}

// ExpectRecordSaves accepts any number of saves and captures a copy of each
// record
func ExpectRecordSaves(repo *battlesmock.MockRepository) *SavedRecords {
	saved := &SavedRecords{}
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *battles.SaveInput) (*battles.SaveOutput, error) {
			saved.Records = append(saved.Records, input.Record.Clone())
			return &battles.SaveOutput{}, nil
		}).
		AnyTimes()
	return saved
}

// ExpectRecordSavesFail makes every save fail with err
func ExpectRecordSavesFail(repo *battlesmock.MockRepository, err error) {
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, err).
		AnyTimes()
}
