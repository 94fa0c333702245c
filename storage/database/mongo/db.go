package mongodb

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qori-edu/backend/core"
)

// Collection names. The record kinds share one collection discriminated
// by the "kind" field so the natural-key index covers them all.
const (
	colInstitutions = "institutions"
	colUsers        = "users"
	colCommissions  = "commissions"
	colTutoring     = "tutoring_assignments"
	colRecords      = "records"
	colAnnounce     = "announcements"
	colTutAnnounce  = "tutoring_announcements"
)

type DB struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func Open(conf *core.Config) (*DB, error) {
	timeout := conf.Database.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, pkgerrors.Wrap(core.ErrStoreUnavailable, err.Error())
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, pkgerrors.Wrap(core.ErrStoreUnavailable, err.Error())
	}

	return &DB{
		client:  client,
		db:      client.Database(conf.Database.Name),
		timeout: timeout,
	}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// wrapErr converts driver transport failures into core.ErrStoreUnavailable
// and leaves domain-mappable errors (ErrNoDocuments, duplicate keys) alone.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments || mongo.IsDuplicateKeyError(err) {
		return err
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return pkgerrors.Wrap(core.ErrStoreUnavailable, err.Error())
	}
	return err
}
