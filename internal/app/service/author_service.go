package service

import (
	"fmt"
	"time"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

// AuthorService issues the tokens that tie comments to their author
type AuthorService interface {
	IssueToken(name string) (*util.AuthorToken, error)
}

type authorService struct {
	secret        string
	expiry        time.Duration
	maxNameLength int
}

func NewAuthorService(secret string, expiry time.Duration, maxNameLength int) AuthorService {
	return &authorService{secret: secret, expiry: expiry, maxNameLength: maxNameLength}
}

// IssueToken allocates a fresh author id. An empty name gets a generated pseudonym.
func (s *authorService) IssueToken(name string) (*util.AuthorToken, error) {
	name = util.CleanUserText(name)
	if name == "" {
		name = util.GeneratePseudonym()
	}
	if util.RuneLen(name) > s.maxNameLength {
		return nil, fmt.Errorf("%w: author name exceeds %d characters", ErrValidation, s.maxNameLength)
	}
	if name == model.DeletedSentinel {
		return nil, fmt.Errorf("%w: reserved author name", ErrValidation)
	}

	token, err := util.GenerateAuthorToken("", name, s.secret, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to issue author token: %w", err)
	}
	return token, nil
}
