package coning

import "math"

// Units: permeability mD, thickness and radii ft, viscosity cP,
// Bo bbl/STB, density lb/ft3, rates STB/d.
//
// None of the functions validate their input. Out of range values
// (re <= rw, hp >= h, zero viscosity) come back as NaN or ±Inf.

type MeyerGardnerParams struct {
	Ko   float64 `json:"ko"`   // effective permeability
	H    float64 `json:"h"`    // formation thickness
	Hp   float64 `json:"hp"`   // perforated thickness
	Mu   float64 `json:"mu"`   // oil viscosity
	Bo   float64 `json:"bo"`   // oil formation volume factor
	Re   float64 `json:"re"`   // drainage radius
	Rw   float64 `json:"rw"`   // well radius
	Deno float64 `json:"deno"` // oil density
	Denw float64 `json:"denw"` // water density
}

type ChapersonParams struct {
	Kh   float64 `json:"kh"` // horizontal permeability
	Kv   float64 `json:"kv"` // vertical permeability
	H    float64 `json:"h"`
	Hp   float64 `json:"hp"`
	Mu   float64 `json:"mu"`
	Bo   float64 `json:"bo"`
	Denw float64 `json:"denw"`
	Deno float64 `json:"deno"`
	Re   float64 `json:"re"`
}

type ScholsParams struct {
	Ko   float64 `json:"ko"`
	H    float64 `json:"h"`
	Hp   float64 `json:"hp"`
	Mu   float64 `json:"mu"`
	Rw   float64 `json:"rw"`
	Re   float64 `json:"re"`
	Denw float64 `json:"denw"`
	Deno float64 `json:"deno"`
	Bo   float64 `json:"bo"`
}

type MuskatWyckoffParams struct {
	Ko   float64 `json:"ko"`
	H    float64 `json:"h"`
	Hp   float64 `json:"hp"`
	Mu   float64 `json:"mu"`
	Re   float64 `json:"re"`
	Denw float64 `json:"denw"`
	Deno float64 `json:"deno"`
	Bo   float64 `json:"bo"`
	Rw   float64 `json:"rw"`
}

// SobocinskiCorneliusParams carries every input of the two step model.
// Kv only feeds the breakthrough time. Rw and Re are collected with the
// rest of the well data but enter neither formula.
type SobocinskiCorneliusParams struct {
	Kh   float64 `json:"kh"`
	Kv   float64 `json:"kv"`
	H    float64 `json:"h"`
	Hp   float64 `json:"hp"`
	Mu   float64 `json:"mu"`
	Rw   float64 `json:"rw"`
	Re   float64 `json:"re"`
	Denw float64 `json:"denw"`
	Deno float64 `json:"deno"`
	Bo   float64 `json:"bo"`
	Qo   float64 `json:"qo"`  // oil rate
	Kro  float64 `json:"kro"` // relative permeability to oil
	Krw  float64 `json:"krw"` // relative permeability to water
	Mw   float64 `json:"mw"`  // water viscosity
	Phi  float64 `json:"phi"` // porosity, fraction
}

// Breakthrough is the Sobocinski & Cornelius result pair.
type Breakthrough struct {
	Tbt float64 // days
	Qoc float64 // STB/d
}

func MeyerGardner(p MeyerGardnerParams) float64 {
	return 0.0000246 * ((p.Denw - p.Deno) / math.Log(p.Re/p.Rw)) *
		(p.Ko / (p.Mu * p.Bo)) *
		(p.H*p.H - p.Hp*p.Hp)
}

func Chaperson(p ChapersonParams) float64 {
	return 0.00000783 * (p.Kh * math.Pow(p.H-p.Hp, 2) / (p.Mu * p.Bo)) * (p.Denw - p.Deno) *
		(0.7311 + 1.943/((p.Re/p.H)*math.Sqrt(p.Kv/p.Kh)))
}

func Schols(p ScholsParams) float64 {
	return 0.00000783 * (p.Denw - p.Deno) * p.Ko * (p.H*p.H - p.Hp*p.Hp) / (p.Mu * p.Bo) *
		(0.432 + 3.142/math.Log(p.Re/p.Rw)) *
		math.Pow(p.H/p.Re, 0.14)
}

func MuskatWyckoff(p MuskatWyckoffParams) float64 {
	penetration := 1 - math.Pow(p.Hp/p.H, 2)
	return 0.0000924 * ((p.Denw - p.Deno) * p.Ko * math.Pow(penetration, 1.325) / (p.Mu * p.Bo)) *
		math.Pow(p.H, 2.238) *
		math.Pow(math.Log(p.Re/p.Rw), -1.99)
}

// MobilityExponent returns the exponent applied to the mobility ratio in the
// breakthrough time. M == 1 takes the low branch.
func MobilityExponent(m float64) float64 {
	if m <= 1 {
		return 0.5
	}
	return 0.6
}

// DimensionlessBreakthrough returns Z and the dimensionless breakthrough
// time TDbt derived from it.
func DimensionlessBreakthrough(p SobocinskiCorneliusParams) (z, tdbt float64) {
	z = 0.0000492 * (p.Denw - p.Deno) * p.Kh * p.H * (p.H - p.Hp) / (p.Mu * p.Bo * p.Qo)
	tdbt = (4*z + z*z - 0.75*z*z*z) / (7 - 2*z)
	return z, tdbt
}

// MobilityRatio is (krw/kro)·(μo/μw).
func MobilityRatio(p SobocinskiCorneliusParams) float64 {
	return (p.Krw / p.Kro) * (p.Mu / p.Mw)
}

// SobocinskiCornelius returns the time to water breakthrough at rate Qo and
// the critical rate. The critical rate is its own closed form and does not
// depend on the breakthrough time.
func SobocinskiCornelius(p SobocinskiCorneliusParams) Breakthrough {
	_, tdbt := DimensionlessBreakthrough(p)
	m := MobilityRatio(p)
	alpha := MobilityExponent(m)
	dRho := p.Denw - p.Deno

	return Breakthrough{
		Tbt: 20325 * p.Mu * p.H * p.Phi * tdbt / (dRho * p.Kv * (1 + math.Pow(m, alpha))),
		Qoc: 0.0000141 * dRho * p.Kh * p.H * (p.H - p.Hp) / (p.Mu * p.Bo),
	}
}
