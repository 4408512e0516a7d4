// Package units converts player measurements and labels between their stored
// and display forms.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	cmPerFoot = 30.48
	cmPerInch = 2.54

	// MaxFeet is the tallest accepted height in feet
	MaxFeet = 9
)

// HeightToCm converts a "feet-inches" height such as "6-2" to whole centimeters
func HeightToCm(height string) (int, error) {
	feetStr, inchStr, ok := strings.Cut(strings.TrimSpace(height), "-")
	if !ok {
		return 0, fmt.Errorf("invalid height %q: expected feet-inches", height)
	}
	feet, err := strconv.Atoi(strings.TrimSpace(feetStr))
	if err != nil {
		return 0, fmt.Errorf("invalid height %q: %w", height, err)
	}
	inches, err := strconv.Atoi(strings.TrimSpace(inchStr))
	if err != nil {
		return 0, fmt.Errorf("invalid height %q: %w", height, err)
	}
	if feet < 0 || inches < 0 {
		return 0, fmt.Errorf("invalid height %q: negative value", height)
	}
	if feet > MaxFeet {
		return 0, fmt.Errorf("invalid height %q: more than %d feet", height, MaxFeet)
	}
	if inches >= 12 {
		return 0, fmt.Errorf("invalid height %q: inches must be below 12", height)
	}
	return int(math.Round(float64(feet)*cmPerFoot + float64(inches)*cmPerInch)), nil
}

// MustHeightToCm is HeightToCm for literal seed data
func MustHeightToCm(height string) int {
	cm, err := HeightToCm(height)
	if err != nil {
		panic(err)
	}
	return cm
}

// CmToHeight converts centimeters back to "feet-inches". The conversion rounds
// to whole inches, so it is not an exact inverse of HeightToCm for every input.
func CmToHeight(cm int) string {
	inches := int(math.Round(float64(cm) / cmPerInch))
	return fmt.Sprintf("%d-%d", inches/12, inches%12)
}

var positionLabels = map[string]string{
	"wrdb":        "WR/DB",
	"qblb":        "QB/LB",
	"qblbrbrwrdb": "QB/LB/RB/WR/DB",
	"dete":        "DE/TE",
	"wrlb":        "WR/LB",
}

// FormatPosition turns a coded position like "wrdb" into "WR/DB"
func FormatPosition(code string) string {
	if label, ok := positionLabels[strings.ToLower(code)]; ok {
		return label
	}
	return strings.ToUpper(code)
}

// FormatStatPosition is FormatPosition for the stats table, where the
// all-purpose position is shown as FLEX.
func FormatStatPosition(code string) string {
	if strings.ToLower(code) == "qblbrbrwrdb" {
		return "FLEX"
	}
	return FormatPosition(code)
}

// FormatOdds renders American odds with an explicit plus sign for underdogs
func FormatOdds(odds int) string {
	if odds > 0 {
		return "+" + strconv.Itoa(odds)
	}
	return strconv.Itoa(odds)
}
