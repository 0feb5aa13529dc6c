package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
)

// Errors reported by image analysis services
var (
	ErrServiceUnavailable = goerr.New("service unavailable")
	ErrTimeout            = goerr.New("service timeout")
)

// Verifier checks a medication photo against a non-empty list of prescriptions.
// The returned verdict always references one of the given prescriptions.
type Verifier interface {
	Verify(ctx context.Context, photo *model.Photo, prescriptions []*model.Prescription) (*model.Verdict, error)
}

// Extractor reads prescription fields from a prescription image
type Extractor interface {
	Extract(ctx context.Context, photo *model.Photo) (*model.ExtractedPrescription, error)
}

// InteractionChecker tells whether a new medication is safe next to existing ones
type InteractionChecker interface {
	Check(ctx context.Context, existing []*model.Prescription, newMed *model.Prescription) ([]*model.Interaction, error)
}
