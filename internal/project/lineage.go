package project

import (
	"os"

	"github.com/cockroachdb/errors"

	"projio/internal/ledger"
	"projio/internal/pathutil"
)

// TrackProducer records that producer wrote target. Both are made absolute
// against the working directory; an empty producer means the running
// program.
func (p *ProjectIO) TrackProducer(target, producer, kind, tag string) (ledger.Record, error) {
	if target == "" {
		return ledger.Record{}, errors.New("PIO_TRACK: target is required")
	}
	if producer == "" && len(os.Args) > 0 {
		producer = os.Args[0]
	}
	t, err := pathutil.Normalize(target, "")
	if err != nil {
		return ledger.Record{}, errors.Wrap(err, "PIO_TRACK")
	}
	pr, err := pathutil.Normalize(producer, "")
	if err != nil {
		return ledger.Record{}, errors.Wrap(err, "PIO_TRACK")
	}
	return p.led.Track(t, pr, kind, tag), nil
}

// ProducersOf returns the records whose target is target.
func (p *ProjectIO) ProducersOf(target string) ([]ledger.Record, error) {
	t, err := pathutil.Normalize(target, "")
	if err != nil {
		return nil, errors.Wrap(err, "PIO_QUERY")
	}
	return p.led.ProducersOf(t), nil
}

// OutputsOf returns the records whose producer is producer.
func (p *ProjectIO) OutputsOf(producer string) ([]ledger.Record, error) {
	pr, err := pathutil.Normalize(producer, "")
	if err != nil {
		return nil, errors.Wrap(err, "PIO_QUERY")
	}
	return p.led.OutputsOf(pr), nil
}

// SaveLedger persists the ledger to the configured path. It is a no-op when
// persistence is off or in dry-run mode.
func (p *ProjectIO) SaveLedger() error {
	if p.ledgerPath == "" || p.DryRun() {
		return nil
	}
	return p.led.Save(p.ledgerPath)
}
