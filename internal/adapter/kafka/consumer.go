package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const slowDownTimeout = 1 * time.Second

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(
	seedBrokers []string, topic, group string, tlsCfg *tls.Config,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		kopts := append(commonOpts(seedBrokers, tlsCfg),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		)
		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

// ConsumerWithClientOpt uses an already built client.
func ConsumerWithClientOpt(cl ConsumerClient) ConsumerOpt {
	return func(co *consumerOpts) error {
		if cl == nil {
			return errors.New("consumer client is nil")
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func ConsumerHandlerOpt(h port.CatalogEventsHandler) ConsumerOpt {
	return func(co *consumerOpts) error {
		if h == nil {
			return errors.New("catalog events handler is nil")
		}
		co.handler = h
		return nil
	}
}

type consumerOpts struct {
	cl      ConsumerClient
	decoder Decoder
	handler port.CatalogEventsHandler
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	if co.cl == nil || co.decoder == nil || co.handler == nil {
		return ErrTooFewOpts
	}
	return nil
}

// A CatalogEventsConsumer polls catalog events and hands each batch to the
// handler. Offsets are committed only after the handler succeeds.
type CatalogEventsConsumer struct {
	opPrefix      string
	cl            ConsumerClient
	decoder       Decoder
	handler       port.CatalogEventsHandler
	slowDownTimer *time.Timer
}

func NewCatalogEventsConsumer(
	opts ...ConsumerOpt,
) (CatalogEventsConsumer, error) {
	const op = "NewCatalogEventsConsumer"

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return CatalogEventsConsumer{}, opErr(err, op)
	}

	t := time.NewTimer(slowDownTimeout)
	t.Stop()

	return CatalogEventsConsumer{
		opPrefix:      "CatalogEventsConsumer",
		cl:            options.cl,
		decoder:       options.decoder,
		handler:       options.handler,
		slowDownTimer: t,
	}, nil
}

// Run blocks until ctx is done.
func (c CatalogEventsConsumer) Run(ctx context.Context) {
	const op = "Run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown(ctx)
			}
		}
	}
}

func (c CatalogEventsConsumer) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c CatalogEventsConsumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	evts := c.toDomain(fetches)
	if len(evts) != 0 {
		if err := c.handler.HandleCatalogEvents(ctx, evts); err != nil {
			return opErr(err, c.opPrefix, op)
		}
	}

	if err := c.commit(ctx); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c CatalogEventsConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	if err := c.handleFetchesErrs(fetches); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}
	return fetches, nil
}

func (c CatalogEventsConsumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errsMessages = append(errsMessages, fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			))
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

// toDomain decodes every record; undecodable records are logged and
// skipped so one bad message cannot stall the partition.
func (c CatalogEventsConsumer) toDomain(
	fetches kgo.Fetches,
) (evts []domain.CatalogEvent) {
	const op = "toDomain"
	log := slog.With("op", makeOp(c.opPrefix, op))

	fetches.EachRecord(func(r *kgo.Record) {
		var s schema.CatalogEventV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			log.Error(
				"failed to decode value",
				"topic", r.Topic, "offset", r.Offset,
				"err", opErr(err, c.opPrefix, op),
			)
			return
		}
		evts = append(evts, schemaV1ToEvent(s))
	})
	return evts
}

func (c CatalogEventsConsumer) commit(ctx context.Context) error {
	const op = "commit"

	if err := ctx.Err(); err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c CatalogEventsConsumer) slowDown(ctx context.Context) {
	c.slowDownTimer.Reset(slowDownTimeout)
	select {
	case <-ctx.Done():
	case <-c.slowDownTimer.C:
	}
}
