// Package mockai provides stand-in image analyzers that answer after a fixed
// delay with simulated results. They let the rest of the system run without
// any model behind it.
package mockai

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/domain/types"
)

// Default simulated processing times
const (
	DefaultVerifyDelay  = 3 * time.Second
	DefaultExtractDelay = 1500 * time.Millisecond
)

// DefaultExtraction is the canned prescription returned by Extractor
func DefaultExtraction() model.ExtractedPrescription {
	return model.ExtractedPrescription{
		Name:         "Lisinopril",
		Dosage:       "10mg",
		Frequency:    "Once daily",
		Instructions: "Take with or without food. Take at the same time each day.",
	}
}

// outcomes are drawn uniformly
var outcomes = []types.Compliance{
	types.ComplianceCorrect,
	types.ComplianceIncorrect,
	types.ComplianceWarning,
}

// Verifier picks a uniformly random prescription and an independent uniformly
// random outcome class, then builds the matching verdict.
type Verifier struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

var _ interfaces.Verifier = &Verifier{}

type VerifierOption func(*Verifier)

func WithVerifyDelay(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.delay = d
	}
}

// WithRand replaces the random source, mainly for reproducible tests
func WithRand(r *rand.Rand) VerifierOption {
	return func(v *Verifier) {
		v.rnd = r
	}
}

func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		delay: DefaultVerifyDelay,
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, photo *model.Photo, prescriptions []*model.Prescription) (*model.Verdict, error) {
	if len(prescriptions) == 0 {
		return model.NoPrescriptionsVerdict(), nil
	}

	if err := sleep(ctx, v.delay); err != nil {
		return nil, err
	}

	v.mu.Lock()
	target := prescriptions[v.rnd.IntN(len(prescriptions))]
	outcome := outcomes[v.rnd.IntN(len(outcomes))]
	v.mu.Unlock()

	switch outcome {
	case types.ComplianceCorrect:
		return model.MatchVerdict(target), nil
	case types.ComplianceIncorrect:
		return model.DosageMismatchVerdict(target, model.MismatchDosage(target.Dosage)), nil
	default:
		return model.NameMismatchVerdict(target, model.MismatchName(target.Name)), nil
	}
}

// Extractor returns a fixed prescription after a delay, regardless of the image
type Extractor struct {
	delay  time.Duration
	result model.ExtractedPrescription
}

var _ interfaces.Extractor = &Extractor{}

type ExtractorOption func(*Extractor)

func WithExtractDelay(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.delay = d
	}
}

// WithExtraction replaces the canned result
func WithExtraction(p model.ExtractedPrescription) ExtractorOption {
	return func(e *Extractor) {
		e.result = p
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		delay:  DefaultExtractDelay,
		result: DefaultExtraction(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, photo *model.Photo) (*model.ExtractedPrescription, error) {
	if err := sleep(ctx, e.delay); err != nil {
		return nil, err
	}
	result := e.result
	return &result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(interfaces.ErrTimeout, "analysis interrupted", goerr.V("cause", ctx.Err()))
	}
}
