package musician_test

import (
	"testing"

	"congrega/internal/domain/musician"
)

// TestMusicianValidation tests validation of Musician.
func TestMusicianValidation(t *testing.T) {
	tests := []struct {
		name    string
		m       musician.Musician
		wantErr error
	}{
		{
			name: "valid listed instrument",
			m:    musician.Musician{Name: "João Silva", Instrument: "Violino", CongregationID: "c1", Status: musician.StatusActive},
		},
		{
			name: "free text instrument",
			m:    musician.Musician{Name: "Maria", Instrument: "Oboé", CongregationID: "c1", Status: musician.StatusInTraining},
		},
		{
			name:    "missing instrument",
			m:       musician.Musician{Name: "Maria", CongregationID: "c1", Status: musician.StatusActive},
			wantErr: musician.ErrEmptyInstrument,
		},
		{
			name:    "missing congregation",
			m:       musician.Musician{Name: "Maria", Instrument: "Viola", Status: musician.StatusActive},
			wantErr: musician.ErrMissingCongregation,
		},
		{
			name:    "invalid status",
			m:       musician.Musician{Name: "Maria", Instrument: "Viola", CongregationID: "c1", Status: "ativa"},
			wantErr: musician.ErrInvalidStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsKnownInstrument(t *testing.T) {
	if !musician.IsKnownInstrument("Órgão") {
		t.Error("Órgão should be a known instrument")
	}
	if musician.IsKnownInstrument("Guitarra") {
		t.Error("Guitarra should not be a known instrument")
	}
}
