package kafka

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/niksmo/proexplore/internal/core/domain"
	"github.com/niksmo/proexplore/internal/core/port"
	"github.com/niksmo/proexplore/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.FavoriteEventsProducer = (*FavoritesProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close(ctx context.Context) {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	if err := p.cl.Flush(ctx); err != nil {
		log.Error("failed to flush buffered records", "err", err)
	}
	p.cl.Close()
	log.Info("producer is closed")
}

// produce buffers r and returns at once. A full buffer and delivery errors
// are logged.
func (p producer) produce(ctx context.Context, r *kgo.Record) {
	const op = "produce"
	p.cl.TryProduce(ctx, r, func(r *kgo.Record, err error) {
		if err != nil {
			slog.Error(
				"failed to deliver record",
				"op", makeOp(p.opPrefix, op),
				"key", string(r.Key),
				"err", err,
			)
		}
	})
}

// A FavoritesProducer publishes [domain.FavoriteEvent] keyed by product id.
//
// Records are produced asynchronously: a toggle never waits for the broker.
type FavoritesProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewFavoritesProducer(opts ...ProducerOpt) (FavoritesProducer, error) {
	const op = "NewFavoritesProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return FavoritesProducer{}, opErr(err, op)
		}
	}

	opPrefix := "FavoritesProducer"
	return FavoritesProducer{
		producer: producer{opPrefix: opPrefix, cl: options.cl},
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p FavoritesProducer) Close(ctx context.Context) {
	p.producer.close(ctx)
}

func (p FavoritesProducer) ProduceFavoriteEvent(
	ctx context.Context, e domain.FavoriteEvent,
) error {
	const op = "ProduceFavoriteEvent"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(e)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	p.producer.produce(ctx, r)
	return nil
}

// Observe is a [port.FavoriteObserver].
func (p FavoritesProducer) Observe(e domain.FavoriteEvent) {
	const op = "Observe"

	// the toggling request may end before the record is delivered
	err := p.ProduceFavoriteEvent(context.Background(), e)
	if err != nil {
		slog.Error("failed to produce favorite event",
			"op", makeOp(p.opPrefix, op), "err", err)
	}
}

func (p FavoritesProducer) createRecord(
	e domain.FavoriteEvent,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(e)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{
		Key:       []byte(strconv.Itoa(e.ProductID)),
		Value:     b,
		Timestamp: e.At,
	}, nil
}

func (FavoritesProducer) toSchema(e domain.FavoriteEvent) schema.FavoriteEventV1 {
	return schema.FavoriteEventV1{
		ProductID: int64(e.ProductID),
		Favorite:  e.Favorite,
		ToggledAt: e.At,
	}
}
