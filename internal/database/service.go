package database

import (
	"github.com/askora/askora/internal/database/service"
	"github.com/askora/askora/internal/redis"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	vote       *service.VoteService
	reputation *service.ReputationService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, counts *redis.VoteCountCache, logger *zap.Logger) *Service {
	return &Service{
		vote:       service.NewVote(repository.Vote(), counts, logger),
		reputation: service.NewReputation(repository.Reputation(), logger),
	}
}

// Vote returns the vote service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Reputation returns the reputation service.
func (s *Service) Reputation() *service.ReputationService {
	return s.reputation
}
