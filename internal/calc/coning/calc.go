package coning

import (
	"errors"
	"fmt"
)

type Method string

const (
	MethodMeyerGardner        Method = "meyer-gardner"
	MethodChaperson           Method = "chaperson"
	MethodSchols              Method = "schols"
	MethodMuskatWyckoff       Method = "muskat-wyckoff"
	MethodSobocinskiCornelius Method = "sobocinski-cornelius"
)

var ErrUnknownMethod = errors.New("unknown coning method")

var titles = map[Method]string{
	MethodMeyerGardner:        "Meyer & Gardner",
	MethodChaperson:           "Chaperson",
	MethodSchols:              "Schols",
	MethodMuskatWyckoff:       "Muskat & Wyckoff",
	MethodSobocinskiCornelius: "Sobocinski & Cornelius",
}

// Methods lists every correlation in display order.
func Methods() []Method {
	return []Method{
		MethodMeyerGardner,
		MethodChaperson,
		MethodSchols,
		MethodMuskatWyckoff,
		MethodSobocinskiCornelius,
	}
}

// Title is the published name of the correlation.
func (m Method) Title() string {
	if t, ok := titles[m]; ok {
		return t
	}
	return string(m)
}

func (m Method) Valid() bool {
	_, ok := titles[m]
	return ok
}

// Input is a single-well request. Each method reads only the fields it
// needs: Ko for Meyer & Gardner, Schols and Muskat & Wyckoff, Kh/Kv for
// Chaperson and Sobocinski & Cornelius.
type Input struct {
	Method Method  `json:"method"`
	Ko     float64 `json:"ko"`
	Kh     float64 `json:"kh"`
	Kv     float64 `json:"kv"`
	H      float64 `json:"h"`
	Hp     float64 `json:"hp"`
	Mu     float64 `json:"mu"`
	Bo     float64 `json:"bo"`
	Re     float64 `json:"re"`
	Rw     float64 `json:"rw"`
	Deno   float64 `json:"deno"`
	Denw   float64 `json:"denw"`
	Qo     float64 `json:"qo"`
	Kro    float64 `json:"kro"`
	Krw    float64 `json:"krw"`
	Mw     float64 `json:"mw"`
	Phi    float64 `json:"phi"`
}

type Result struct {
	Method Method `json:"method"`
	Qoc    Value  `json:"qoc_stb_d"`
	Tbt    *Value `json:"tbt_days,omitempty"`
	Finite bool   `json:"finite"`
	Notes  string `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	res := Result{Method: in.Method}
	switch in.Method {
	case MethodMeyerGardner:
		res.Qoc = Value(MeyerGardner(in.MeyerGardner()))
		res.Notes = "Meyer & Gardner critical rate, partially penetrating vertical well."
	case MethodChaperson:
		res.Qoc = Value(Chaperson(in.Chaperson()))
		res.Notes = "Chaperson critical rate, anisotropic formation."
	case MethodSchols:
		res.Qoc = Value(Schols(in.Schols()))
		res.Notes = "Schols empirical critical rate."
	case MethodMuskatWyckoff:
		res.Qoc = Value(MuskatWyckoff(in.MuskatWyckoff()))
		res.Notes = "Muskat & Wyckoff critical rate."
	case MethodSobocinskiCornelius:
		bt := SobocinskiCornelius(in.SobocinskiCornelius())
		tbt := Value(bt.Tbt)
		res.Qoc = Value(bt.Qoc)
		res.Tbt = &tbt
		res.Notes = fmt.Sprintf("Sobocinski & Cornelius, breakthrough time at Qo = %.2f STB/d.", in.Qo)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMethod, in.Method)
	}
	res.Finite = res.Qoc.Finite() && (res.Tbt == nil || res.Tbt.Finite())
	if !res.Finite {
		res.Notes += " Inputs are outside the range of the correlation."
	}
	return res, nil
}

func (in Input) MeyerGardner() MeyerGardnerParams {
	return MeyerGardnerParams{Ko: in.Ko, H: in.H, Hp: in.Hp, Mu: in.Mu, Bo: in.Bo, Re: in.Re, Rw: in.Rw, Deno: in.Deno, Denw: in.Denw}
}

func (in Input) Chaperson() ChapersonParams {
	return ChapersonParams{Kh: in.Kh, Kv: in.Kv, H: in.H, Hp: in.Hp, Mu: in.Mu, Bo: in.Bo, Denw: in.Denw, Deno: in.Deno, Re: in.Re}
}

func (in Input) Schols() ScholsParams {
	return ScholsParams{Ko: in.Ko, H: in.H, Hp: in.Hp, Mu: in.Mu, Rw: in.Rw, Re: in.Re, Denw: in.Denw, Deno: in.Deno, Bo: in.Bo}
}

func (in Input) MuskatWyckoff() MuskatWyckoffParams {
	return MuskatWyckoffParams{Ko: in.Ko, H: in.H, Hp: in.Hp, Mu: in.Mu, Re: in.Re, Denw: in.Denw, Deno: in.Deno, Bo: in.Bo, Rw: in.Rw}
}

func (in Input) SobocinskiCornelius() SobocinskiCorneliusParams {
	return SobocinskiCorneliusParams{
		Kh: in.Kh, Kv: in.Kv, H: in.H, Hp: in.Hp, Mu: in.Mu, Rw: in.Rw, Re: in.Re,
		Denw: in.Denw, Deno: in.Deno, Bo: in.Bo, Qo: in.Qo,
		Kro: in.Kro, Krw: in.Krw, Mw: in.Mw, Phi: in.Phi,
	}
}

// Defaults returns the starting values offered for each method.
func Defaults(m Method) (Input, error) {
	switch m {
	case MethodMeyerGardner:
		return Input{Method: m, Ko: 93.5, H: 40, Hp: 15, Mu: 0.73, Bo: 1.1, Re: 660, Rw: 0.25, Deno: 47.5, Denw: 63.76}, nil
	case MethodChaperson:
		return Input{Method: m, Kh: 100, Kv: 10, H: 50, Hp: 15, Mu: 0.73, Bo: 1.1, Denw: 63.76, Deno: 47.5, Re: 1000}, nil
	case MethodSchols, MethodMuskatWyckoff:
		return Input{Method: m, Ko: 93, H: 50, Hp: 15, Mu: 0.73, Bo: 1.1, Re: 1000, Rw: 0.25, Deno: 47.5, Denw: 63.76}, nil
	case MethodSobocinskiCornelius:
		return Input{
			Method: m, Kh: 93, Kv: 9, H: 50, Hp: 15, Mu: 0.73, Rw: 0.25, Re: 1000,
			Denw: 63.76, Deno: 47.5, Bo: 1.1, Qo: 250, Kro: 1, Krw: 1, Mw: 1, Phi: 0.13,
		}, nil
	}
	return Input{}, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
}

// Param describes one input field of a method, in form order.
type Param struct {
	Key   string
	Label string
	Unit  string
	Value float64
}

// Params lists the fields the method reads from in, with labels and units.
func (in Input) Params() []Param {
	ko := Param{"ko", "Effective Permeability (ko)", "mD", in.Ko}
	kh := Param{"kh", "Horizontal Permeability (kh)", "mD", in.Kh}
	kv := Param{"kv", "Vertical Permeability (kv)", "mD", in.Kv}
	h := Param{"h", "Formation Thickness (h)", "ft", in.H}
	hp := Param{"hp", "Perforated Thickness (hp)", "ft", in.Hp}
	mu := Param{"mu", "Oil Viscosity (mu)", "cP", in.Mu}
	bo := Param{"bo", "Oil Volume Factor (Bo)", "bbl/STB", in.Bo}
	re := Param{"re", "Drainage Radius (re)", "ft", in.Re}
	rw := Param{"rw", "Well Radius (rw)", "ft", in.Rw}
	deno := Param{"deno", "Oil Density (Deno)", "lb/ft3", in.Deno}
	denw := Param{"denw", "Water Density (Denw)", "lb/ft3", in.Denw}

	switch in.Method {
	case MethodMeyerGardner, MethodSchols, MethodMuskatWyckoff:
		return []Param{ko, h, hp, mu, bo, re, rw, deno, denw}
	case MethodChaperson:
		return []Param{kh, kv, h, hp, mu, bo, denw, deno, re}
	case MethodSobocinskiCornelius:
		return []Param{
			kh, kv, h, hp, mu, rw, re, denw, deno, bo,
			{"qo", "Oil Flow Rate (Qo)", "STB/d", in.Qo},
			{"kro", "Relative Permeability to Oil (kro)", "", in.Kro},
			{"krw", "Relative Permeability to Water (krw)", "", in.Krw},
			{"mw", "Water Viscosity (mw)", "cP", in.Mw},
			{"phi", "Porosity (phi)", "", in.Phi},
		}
	}
	return nil
}

// Set assigns the field named by key (as returned in Param.Key).
func (in *Input) Set(key string, v float64) error {
	fields := map[string]*float64{
		"ko": &in.Ko, "kh": &in.Kh, "kv": &in.Kv, "h": &in.H, "hp": &in.Hp,
		"mu": &in.Mu, "bo": &in.Bo, "re": &in.Re, "rw": &in.Rw,
		"deno": &in.Deno, "denw": &in.Denw, "qo": &in.Qo,
		"kro": &in.Kro, "krw": &in.Krw, "mw": &in.Mw, "phi": &in.Phi,
	}
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown parameter %q", key)
	}
	*f = v
	return nil
}
