package intrinsics

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// HomographiesFromRows converts a list of 3x3 row arrays into homographies.
func HomographiesFromRows(stack [][][]float64) ([]Homography, error) {
	hs := make([]Homography, 0, len(stack))
	for i, rows := range stack {
		h, err := NewHomographyFromRows(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "homography %d", i)
		}
		hs = append(hs, h)
	}
	return hs, nil
}

// ReadHomographies decodes a JSON array of homographies, each given as three rows of three numbers.
func ReadHomographies(r io.Reader) ([]Homography, error) {
	var stack [][][]float64
	if err := json.NewDecoder(r).Decode(&stack); err != nil {
		return nil, errors.Wrap(err, "error parsing homographies")
	}
	return HomographiesFromRows(stack)
}

// ReadHomographiesFile reads homographies from a JSON file in the format of ReadHomographies.
func ReadHomographiesFile(path string) ([]Homography, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening homographies file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadHomographies(f)
}
