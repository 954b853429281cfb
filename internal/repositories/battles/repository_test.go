package battles_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/arena/internal/errors"
	"github.com/KirkDiggler/arena/internal/repositories/battles"
	"github.com/KirkDiggler/arena/internal/testutils"
	"github.com/KirkDiggler/arena/internal/testutils/builders"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// RepositoryTestSuite runs the same behaviour against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	newRepo func() battles.Repository
	repo    battles.Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo()
}

func (s *RepositoryTestSuite) save(record *battles.Record) {
	_, err := s.repo.Save(s.ctx, &battles.SaveInput{Record: record})
	s.Require().NoError(err)
}

func (s *RepositoryTestSuite) TestSaveAndGet() {
	record := builders.NewRecordBuilder().
		WithID("battle-1").
		WithCombatant(10, "CONAN", "warrior", 100).
		WithCombatant(20, "MERLIN", "mage", 80).
		WithActions(3).
		Build()
	s.save(record)

	out, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "battle-1"})
	s.Require().NoError(err)
	s.Equal(record, out.Record)
	s.Equal(2, out.Record.CombatantCount())
}

func (s *RepositoryTestSuite) TestSaveReplaces() {
	s.save(builders.NewRecordBuilder().WithID("battle-1").Build())
	s.save(builders.NewRecordBuilder().WithID("battle-1").WithActions(5).Concluded("CONAN").Build())

	out, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "battle-1"})
	s.Require().NoError(err)
	s.Equal(battles.StatusConcluded, out.Record.Status)
	s.Equal("CONAN", out.Record.WinnerName)
	s.Equal(5, out.Record.ActionCount)

	list, err := s.repo.List(s.ctx, &battles.ListInput{})
	s.Require().NoError(err)
	s.Len(list.Records, 1)
}

func (s *RepositoryTestSuite) TestSaveIsolatesCallerCopy() {
	record := builders.NewRecordBuilder().WithID("battle-1").WithCombatant(1, "A", "mage", 10).Build()
	s.save(record)

	record.Combatants[0].Health = 0
	record.Status = battles.StatusConcluded

	out, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "battle-1"})
	s.Require().NoError(err)
	s.Equal(10, out.Record.Combatants[0].Health)
	s.Equal(battles.StatusSetup, out.Record.Status)
}

func (s *RepositoryTestSuite) TestValidation() {
	testCases := []struct {
		name string
		call func() error
	}{
		{name: "save nil input", call: func() error { _, err := s.repo.Save(s.ctx, nil); return err }},
		{name: "save nil record", call: func() error { _, err := s.repo.Save(s.ctx, &battles.SaveInput{}); return err }},
		{name: "save empty id", call: func() error {
			_, err := s.repo.Save(s.ctx, &battles.SaveInput{Record: &battles.Record{}})
			return err
		}},
		{name: "get nil input", call: func() error { _, err := s.repo.Get(s.ctx, nil); return err }},
		{name: "get empty id", call: func() error { _, err := s.repo.Get(s.ctx, &battles.GetInput{}); return err }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.call()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *RepositoryTestSuite) TestGetNotFound() {
	_, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("missing", errors.GetMetaString(err, "battle_id"))
}

func (s *RepositoryTestSuite) TestListNewestFirst() {
	for i := 0; i < 5; i++ {
		s.save(builders.NewRecordBuilder().
			WithID(fmt.Sprintf("battle-%d", i)).
			WithCreatedAt(baseTime.Add(time.Duration(i) * time.Minute)).
			Build())
	}

	out, err := s.repo.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(out.Records, 5)
	for i, record := range out.Records {
		s.Equal(fmt.Sprintf("battle-%d", 4-i), record.ID)
	}

	limited, err := s.repo.List(s.ctx, &battles.ListInput{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(limited.Records, 2)
	s.Equal("battle-4", limited.Records[0].ID)
	s.Equal("battle-3", limited.Records[1].ID)
}

func (s *RepositoryTestSuite) TestListEmpty() {
	out, err := s.repo.List(s.ctx, &battles.ListInput{})
	s.Require().NoError(err)
	s.Empty(out.Records)
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() battles.Repository { return battles.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() battles.Repository {
			client, cleanup := testutils.CreateTestRedisClient(t)
			t.Cleanup(cleanup)

			repo, err := battles.NewRedis(&battles.RedisConfig{Client: client})
			if err != nil {
				t.Fatalf("failed to create repository: %v", err)
			}
			return repo
		},
	})
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	mr   *miniredis.Miniredis
	repo battles.Repository
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.T().Cleanup(cleanup)
	s.mr = mr

	repo, err := battles.NewRedis(&battles.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TestNewRedis() {
	_, err := battles.NewRedis(nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "config cannot be nil")

	_, err = battles.NewRedis(&battles.RedisConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "client cannot be nil")
}

func (s *RedisRepositoryTestSuite) TestKeys() {
	record := builders.NewRecordBuilder().WithID("battle-1").Build()
	_, err := s.repo.Save(s.ctx, &battles.SaveInput{Record: record})
	s.Require().NoError(err)

	s.True(s.mr.Exists("battle:battle-1"))
	members, err := s.mr.ZMembers("battles:index")
	s.Require().NoError(err)
	s.Equal([]string{"battle-1"}, members)
}

func (s *RedisRepositoryTestSuite) TestListSkipsMissingRecords() {
	for _, id := range []string{"a", "b"} {
		_, err := s.repo.Save(s.ctx, &battles.SaveInput{Record: builders.NewRecordBuilder().WithID(id).Build()})
		s.Require().NoError(err)
	}
	s.mr.Del("battle:a")

	out, err := s.repo.List(s.ctx, &battles.ListInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Records, 1)
	s.Equal("b", out.Records[0].ID)
}

func (s *RedisRepositoryTestSuite) TestCorruptRecord() {
	s.Require().NoError(s.mr.Set("battle:bad", "{not json"))

	_, err := s.repo.Get(s.ctx, &battles.GetInput{ID: "bad"})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *RedisRepositoryTestSuite) TestServerError() {
	// open a pooled connection before the server starts failing
	_, err := s.repo.List(s.ctx, nil)
	s.Require().NoError(err)

	s.mr.SetError("ERR simulated failure")
	defer s.mr.SetError("")

	_, err = s.repo.Get(s.ctx, &battles.GetInput{ID: "any"})
	s.Require().Error(err)
	s.False(errors.IsNotFound(err))
	s.True(errors.IsInternal(err))
}
