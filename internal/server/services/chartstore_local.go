package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/filex"
	"github.com/dmitrijs2005/mealbot/internal/server/auth"
	"github.com/google/uuid"
)

// LocalChartStore keeps chart images on disk. Links point at the webhook's
// /charts/{token} route, the token naming the file and its expiry.
type LocalChartStore struct {
	dir       string
	baseURL   string
	secretKey []byte
	validity  time.Duration
}

func NewLocalChartStore(dir, publicBaseURL string, secretKey []byte, validity time.Duration) (*LocalChartStore, error) {
	abs, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	if validity <= 0 {
		validity = 15 * time.Minute
	}
	return &LocalChartStore{
		dir:       abs,
		baseURL:   strings.TrimRight(publicBaseURL, "/"),
		secretKey: secretKey,
		validity:  validity,
	}, nil
}

func (s *LocalChartStore) Dir() string { return s.dir }

func (s *LocalChartStore) Save(ctx context.Context, png []byte) (string, error) {
	name := uuid.New().String() + ".png"

	if _, err := filex.WriteFileAtomic(s.dir, name, png); err != nil {
		return "", err
	}

	token, err := auth.GenerateChartToken(name, s.secretKey, s.validity)
	if err != nil {
		return "", fmt.Errorf("sign chart link: %w", err)
	}

	return s.baseURL + "/charts/" + token, nil
}
