package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medmatch/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrPrescriptionNotFound", usecase.ErrPrescriptionNotFound},
		{"ErrSessionNotFound", usecase.ErrSessionNotFound},
		{"ErrSessionNotReady", usecase.ErrSessionNotReady},
		{"ErrDuplicateID", usecase.ErrDuplicateID},
		{"ErrMalformedState", usecase.ErrMalformedState},
		{"ErrEmptyPhoto", usecase.ErrEmptyPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrSessionNotFound, usecase.ErrSessionNotReady)).False()
	gt.Bool(t, errors.Is(usecase.ErrPrescriptionNotFound, usecase.ErrSessionNotFound)).False()
	gt.Bool(t, errors.Is(usecase.ErrDuplicateID, usecase.ErrMalformedState)).False()
}
