package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/imgedit/internal/imaging"
)

// Plan is an ordered list of edits, usually loaded from YAML:
//
//	steps:
//	  - rotate: 90
//	  - crop: {x: 10, y: 10, width: 200, height: 100}
//	  - region: top-left
//	  - resize: {width: 64, height: 32, filter: bilinear}
//	output:
//	  format: jpeg
//	  quality: 85
type Plan struct {
	Steps  []Step  `yaml:"steps"`
	Output *Output `yaml:"output,omitempty"`
}

// Output selects the encoding of the edited image.
type Output struct {
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality,omitempty"`
}

// Step is one edit. Exactly one field must be set.
type Step struct {
	Rotate *int          `yaml:"rotate,omitempty"`
	Crop   *imaging.Rect `yaml:"crop,omitempty"`
	Region string        `yaml:"region,omitempty"`
	Resize *ResizeStep   `yaml:"resize,omitempty"`
}

// ResizeStep is the argument of a resize step.
type ResizeStep struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Filter string `yaml:"filter,omitempty"`
}

// RotateStep returns a rotate step.
func RotateStep(degrees int) Step { return Step{Rotate: &degrees} }

// CropStep returns a crop step.
func CropStep(r imaging.Rect) Step { return Step{Crop: &r} }

// RegionStep returns a named-region crop step.
func RegionStep(name string) Step { return Step{Region: name} }

// ResizeTo returns a resize step. An empty filter uses the editor default.
func ResizeTo(width, height int, filter string) Step {
	return Step{Resize: &ResizeStep{Width: width, Height: height, Filter: filter}}
}

var errNoSteps = errors.New("plan has no steps")

// Validate checks that exactly one operation is set and its arguments parse.
// Bounds are checked later against the actual image.
func (s Step) Validate() error {
	n := 0
	if s.Rotate != nil {
		n++
	}
	if s.Crop != nil {
		n++
	}
	if s.Region != "" {
		n++
		if _, err := imaging.RegionRect(s.Region, 0, 0); err != nil {
			return err
		}
	}
	if s.Resize != nil {
		n++
		if _, err := imaging.ParseFilter(s.Resize.Filter); err != nil {
			return err
		}
	}
	if n != 1 {
		return fmt.Errorf("step must set exactly one operation, got %d", n)
	}
	return nil
}

func (s Step) String() string {
	switch {
	case s.Rotate != nil:
		return fmt.Sprintf("rotate %d", *s.Rotate)
	case s.Crop != nil:
		return fmt.Sprintf("crop %d,%d %dx%d", s.Crop.X, s.Crop.Y, s.Crop.Width, s.Crop.Height)
	case s.Region != "":
		return "region " + s.Region
	case s.Resize != nil:
		if s.Resize.Filter != "" {
			return fmt.Sprintf("resize %dx%d %s", s.Resize.Width, s.Resize.Height, s.Resize.Filter)
		}
		return fmt.Sprintf("resize %dx%d", s.Resize.Width, s.Resize.Height)
	}
	return "empty step"
}

// Validate checks every step and the output section.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errNoSteps
	}
	for i, s := range p.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	if p.Output != nil && (p.Output.Quality < 0 || p.Output.Quality > 100) {
		return fmt.Errorf("output quality must be 0-100, got %d", p.Output.Quality)
	}
	return nil
}

// ParsePlan decodes and validates a YAML plan. Unknown keys are rejected.
func ParsePlan(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoSteps
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPlan reads and parses a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}
