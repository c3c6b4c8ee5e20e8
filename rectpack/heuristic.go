package rectpack

import (
	"errors"
	"fmt"
	"strings"
)

// Heuristic is a bitmask selecting the packing algorithm, the free rectangle
// choice rule and (for Guillotine) the split rule.
type Heuristic uint16

const (
	MaxRects   Heuristic = 0x0
	Guillotine Heuristic = 0x2

	BestShortSideFit  Heuristic = 0x00
	BestLongSideFit   Heuristic = 0x10
	BestAreaFit       Heuristic = 0x20
	BottomLeft        Heuristic = 0x30
	ContactPoint      Heuristic = 0x40
	WorstAreaFit      Heuristic = 0x50
	WorstShortSideFit Heuristic = 0x60
	WorstLongSideFit  Heuristic = 0x70

	SplitShorterLeftoverAxis Heuristic = 0x0000
	SplitLongerLeftoverAxis  Heuristic = 0x0100
	SplitMinimizeArea        Heuristic = 0x0200
	SplitMaximizeArea        Heuristic = 0x0300
	SplitShorterAxis         Heuristic = 0x0400
	SplitLongerAxis          Heuristic = 0x0500

	typeMask  Heuristic = 0x000F
	fitMask   Heuristic = 0x00F0
	splitMask Heuristic = 0x0F00

	/**********************************************************************************************
	* Present combinations of valid heuristics
	**********************************************************************************************/
	MaxRectsBSSF   = MaxRects | BestShortSideFit
	MaxRectsBL     = MaxRects | BottomLeft
	MaxRectsCP     = MaxRects | ContactPoint
	MaxRectsBLSF   = MaxRects | BestLongSideFit
	MaxRectsBAF    = MaxRects | BestAreaFit
	GuillotineBAF  = Guillotine | BestAreaFit
	GuillotineBSSF = Guillotine | BestShortSideFit
	GuillotineBLSF = Guillotine | BestLongSideFit
	GuillotineWAF  = Guillotine | WorstAreaFit
	GuillotineWSSF = Guillotine | WorstShortSideFit
	GuillotineWLSF = Guillotine | WorstLongSideFit
)

// Algorithm returns the algorithm portion of the bitmask.
func (e Heuristic) Algorithm() Heuristic {
	return e & typeMask
}

// Bin returns the bin selection method portion of the bitmask.
func (e Heuristic) Bin() Heuristic {
	return e & fitMask
}

// Split returns the split method portion of the bitmask.
func (e Heuristic) Split() Heuristic {
	return e & splitMask
}

var (
	algoErr  = errors.New("invalid algorithm type specified")
	splitErr = errors.New("split method heuristic is invalid for algorithm type")
	binErr   = errors.New("bin method heuristic is invalid for algorithm type")
)

var algorithmNames = map[Heuristic]string{
	MaxRects:   "MaxRects",
	Guillotine: "Guillotine",
}

var binNames = map[Heuristic]string{
	BestShortSideFit:  "BestShortSideFit",
	BestLongSideFit:   "BestLongSideFit",
	BestAreaFit:       "BestAreaFit",
	BottomLeft:        "BottomLeft",
	ContactPoint:      "ContactPoint",
	WorstAreaFit:      "WorstAreaFit",
	WorstShortSideFit: "WorstShortSideFit",
	WorstLongSideFit:  "WorstLongSideFit",
}

var splitNames = map[Heuristic]string{
	SplitShorterLeftoverAxis: "ShorterLeftoverAxis",
	SplitLongerLeftoverAxis:  "LongerLeftoverAxis",
	SplitMinimizeArea:        "MinimizeArea",
	SplitMaximizeArea:        "MaximizeArea",
	SplitShorterAxis:         "ShorterAxis",
	SplitLongerAxis:          "LongerAxis",
}

// String renders the heuristic as "Algorithm/Variant[/Split]".
func (e Heuristic) String() string {
	algo, ok := algorithmNames[e.Algorithm()]
	if !ok {
		algo = fmt.Sprintf("Algorithm(%#x)", uint16(e.Algorithm()))
	}
	bin, ok := binNames[e.Bin()]
	if !ok {
		bin = fmt.Sprintf("Bin(%#x)", uint16(e.Bin()))
	}
	if e.Algorithm() != Guillotine {
		return algo + "/" + bin
	}
	split, ok := splitNames[e.Split()]
	if !ok {
		split = "Horizontal"
	}
	return algo + "/" + bin + "/" + split
}

// validBins lists which free rectangle choice rules each algorithm supports.
var validBins = map[Heuristic][]Heuristic{
	MaxRects:   {BestShortSideFit, BestLongSideFit, BestAreaFit, BottomLeft, ContactPoint},
	Guillotine: {BestAreaFit, BestShortSideFit, BestLongSideFit, WorstAreaFit, WorstShortSideFit, WorstLongSideFit},
}

// Validate reports whether the combination of algorithm, bin rule and split
// rule is meaningful.
func (e Heuristic) Validate() error {
	bins, ok := validBins[e.Algorithm()]
	if !ok {
		return algoErr
	}
	found := false
	for _, b := range bins {
		if b == e.Bin() {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", binErr, e)
	}
	if e.Algorithm() == MaxRects && e.Split() != 0 {
		return splitErr
	}
	return nil
}

// ResolveAlgorithm 将命令行中的算法名和变体名解析为 Heuristic。
func ResolveAlgorithm(algo, variant string) (Heuristic, error) {
	var base Heuristic
	found := false
	for h, name := range algorithmNames {
		if strings.EqualFold(name, algo) {
			base, found = h, true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: %q", algoErr, algo)
	}
	for h, name := range binNames {
		if strings.EqualFold(name, variant) {
			heuristic := base | h
			if err := heuristic.Validate(); err != nil {
				return 0, err
			}
			return heuristic, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", binErr, variant)
}

// ParseSplit 解析 Guillotine 的分割规则名，可带或不带 "Split" 前缀。
func ParseSplit(name string) (Heuristic, error) {
	name = strings.TrimPrefix(name, "Split")
	for h, n := range splitNames {
		if strings.EqualFold(n, name) {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", splitErr, name)
}
