// Package redis provides a store backed by Redis, so cached members and webhooks survive restarts.
package redis

import (
	"context"

	"emperror.dev/errors"
	"github.com/mediocregopher/radix/v4"
	"github.com/starshine-sys/nbot/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	client radix.Client
}

func New(ctx context.Context, url string) (*Store, error) {
	client, err := (&radix.PoolConfig{}).New(ctx, "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
