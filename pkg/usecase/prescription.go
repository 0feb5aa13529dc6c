package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/domain/model"
	"github.com/secmon-lab/medmatch/pkg/utils/errutil"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
)

// CommitResult is a stored prescription plus the interaction check against
// the prescriptions that existed before it. Interactions is nil when no
// check ran.
type CommitResult struct {
	Prescription *model.Prescription `json:"prescription"`
	Interactions []*model.Interaction `json:"interactions,omitempty"`
}

type PrescriptionUseCase struct {
	state     *AppState
	extractor interfaces.Extractor
	media     interfaces.MediaStore
	checker   interfaces.InteractionChecker
	now       func() time.Time
}

func NewPrescriptionUseCase(state *AppState, extractor interfaces.Extractor, media interfaces.MediaStore, checker interfaces.InteractionChecker, now func() time.Time) *PrescriptionUseCase {
	return &PrescriptionUseCase{
		state:     state,
		extractor: extractor,
		media:     media,
		checker:   checker,
		now:       now,
	}
}

// Extract stores the prescription image and reads editable defaults from it
func (uc *PrescriptionUseCase) Extract(ctx context.Context, photo *model.Photo) (*model.PrescriptionDraft, error) {
	if photo.IsEmpty() {
		return nil, goerr.Wrap(ErrEmptyPhoto, "no prescription image")
	}

	url, err := uc.media.Put(ctx, photo.Data, photo.ContentType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store prescription image")
	}
	photo.URL = url

	extracted, err := uc.extractor.Extract(ctx, photo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract prescription", goerr.V("image_url", url))
	}

	return &model.PrescriptionDraft{
		ExtractedPrescription: *extracted,
		ImageURL:              url,
	}, nil
}

// Commit validates input and stores it as a new prescription
func (uc *PrescriptionUseCase) Commit(ctx context.Context, input *model.PrescriptionInput) (*CommitResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing := uc.state.Prescriptions()
	p := input.ToPrescription(uc.now())

	if err := uc.state.AddPrescription(p); err != nil {
		return nil, goerr.Wrap(err, "failed to add prescription")
	}
	if err := uc.state.Persist(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to persist prescription", goerr.V(PrescriptionIDKey, p.ID))
	}

	logging.From(ctx).Info("Prescription added", "prescription_id", p.ID, "name", p.Name)

	result := &CommitResult{Prescription: p}
	if uc.checker == nil || len(existing) == 0 {
		return result, nil
	}

	interactions, err := uc.checker.Check(ctx, existing, p)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to check medication interactions")
		return result, nil
	}
	for _, ia := range interactions {
		if !ia.Safe {
			logging.From(ctx).Warn("Medications should not be taken together",
				"existing", ia.Existing,
				"new", ia.New,
			)
		}
	}
	result.Interactions = interactions
	return result, nil
}

func (uc *PrescriptionUseCase) Delete(ctx context.Context, id model.PrescriptionID) error {
	if err := uc.state.DeletePrescription(id); err != nil {
		return err
	}
	if err := uc.state.Persist(ctx); err != nil {
		return goerr.Wrap(err, "failed to persist prescription deletion", goerr.V(PrescriptionIDKey, id))
	}
	logging.From(ctx).Info("Prescription deleted", "prescription_id", id)
	return nil
}

func (uc *PrescriptionUseCase) List(ctx context.Context) []*model.Prescription {
	return uc.state.Prescriptions()
}
