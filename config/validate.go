package config

import (
	"fmt"

	"github.com/jdginn/go-bsp-light/bsp"
)

// ValidationError is one structured complaint about a configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{Field: field, Message: "must be positive"}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

func validateBox(field string, mins, maxs Vec3) []ValidationError {
	var errors []ValidationError
	for axis := 0; axis < 3; axis++ {
		if maxs[axis] <= mins[axis] {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("maxs[%d] must exceed mins[%d]", axis, axis),
			})
		}
	}
	return errors
}

// Validate checks the whole configuration and returns every problem found.
func (c *BakeConfig) Validate() []ValidationError {
	var errors []ValidationError

	if c.Variant != "quake" && c.Variant != "quake2" {
		errors = append(errors, ValidationError{
			Field:   "variant",
			Message: fmt.Sprintf("must be \"quake\" or \"quake2\", got %q", c.Variant),
		})
	}

	errors = append(errors, validateBox("world", c.World.Mins, c.World.Maxs)...)
	errors = append(errors, validatePositive("world.thickness", c.World.Thickness)...)
	if c.World.SkyCeiling && c.Variant == "quake" && !bsp.IsSkyName(c.World.SkyTexture) {
		errors = append(errors, ValidationError{
			Field:   "world.sky_texture",
			Message: `must begin with "sky" for the quake variant`,
		})
	}

	for i, brush := range c.Brushes {
		errors = append(errors, brush.validate(fmt.Sprintf("brushes[%d]", i))...)
	}

	if c.Sun.Dir == (Vec3{}) {
		errors = append(errors, ValidationError{
			Field:   "sun.dir",
			Message: "must be a nonzero direction",
		})
	}

	errors = append(errors, validatePositive("grid.height", c.Grid.Height)...)
	errors = append(errors, validatePositive("grid.step", c.Grid.Step)...)

	errors = append(errors, validatePositive("dirt.rays", float64(c.Dirt.Rays))...)
	errors = append(errors, validatePositive("dirt.max_dist", c.Dirt.MaxDist)...)
	errors = append(errors, validateInRange("dirt.angle", c.Dirt.Angle, 1, 90)...)
	for i, wp := range c.Dirt.Weights {
		errors = append(errors, validateInRange(fmt.Sprintf("dirt.weights[%d].angle", i), wp.Angle, 0, 90)...)
		if wp.Weight < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("dirt.weights[%d].weight", i),
				Message: "must be non-negative",
			})
		}
	}

	if c.Outputs.Image.Enabled {
		errors = append(errors, validatePositive("outputs.image.width", float64(c.Outputs.Image.Width))...)
		errors = append(errors, validatePositive("outputs.image.height", float64(c.Outputs.Image.Height))...)
	}

	return errors
}

func (b *Brush) validate(field string) []ValidationError {
	errors := validateBox(field, b.Mins, b.Maxs)

	for _, f := range b.Flags {
		if _, ok := surfFlagNames[f]; !ok {
			errors = append(errors, ValidationError{
				Field:   field + ".flags",
				Message: fmt.Sprintf("unknown surface flag %q", f),
			})
		}
	}
	if b.LightAlpha != 0 {
		errors = append(errors, validateInRange(field+".light_alpha", b.LightAlpha, 0, 1)...)
	}
	if b.Skip && b.Policy == nil {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "skip brushes need a policy, they cannot join the world",
		})
	}
	if b.Policy != nil && b.Policy.Alpha != 0 {
		errors = append(errors, validateInRange(field+".policy.alpha", b.Policy.Alpha, 0, 1)...)
	}
	return errors
}
