package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(p *Params) {},
		},
		{
			name:    "unknown curve type",
			mutate:  func(p *Params) { p.CurveType = "parabolic" },
			wantErr: "unsupported curve type",
		},
		{
			name:    "zero initial price",
			mutate:  func(p *Params) { p.InitialPrice = 0 },
			wantErr: "initial price",
		},
		{
			name:    "zero max supply",
			mutate:  func(p *Params) { p.MaxSupply = 0 },
			wantErr: "max supply",
		},
		{
			name:    "zero graduation threshold",
			mutate:  func(p *Params) { p.GraduationThreshold = 0 },
			wantErr: "graduation threshold",
		},
		{
			name:    "fee split exceeds transaction fee",
			mutate:  func(p *Params) { p.CreatorFeeBps = 60; p.PlatformFeeBps = 60 },
			wantErr: "exceed transaction fee",
		},
		{
			name: "unbounded tier not last",
			mutate: func(p *Params) {
				p.Protection.ImpactTiers = []ImpactTier{
					{ValueThreshold: 0, MaxImpactBps: 800},
					{ValueThreshold: 1000, MaxImpactBps: 100},
				}
			},
			wantErr: "unbounded",
		},
		{
			name: "tiers out of order",
			mutate: func(p *Params) {
				p.Protection.ImpactTiers = []ImpactTier{
					{ValueThreshold: 2000, MaxImpactBps: 100},
					{ValueThreshold: 1000, MaxImpactBps: 300},
				}
			},
			wantErr: "ascending",
		},
		{
			name: "ascending bounded last tier is valid",
			mutate: func(p *Params) {
				p.Protection.ImpactTiers = []ImpactTier{
					{ValueThreshold: 1000, MaxImpactBps: 100},
					{ValueThreshold: 2000, MaxImpactBps: 300},
				}
			},
		},
		{
			name:   "no tiers is valid",
			mutate: func(p *Params) { p.Protection.ImpactTiers = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLamportsFromSol(t *testing.T) {
	assert.Equal(t, uint64(1_000_000_000), LamportsFromSol(1.0))
	assert.Equal(t, uint64(100_000), LamportsFromSol(0.0001))
	assert.Equal(t, uint64(1_500_000_000), LamportsFromSol(1.5))
	assert.Equal(t, uint64(0), LamportsFromSol(0))
}
