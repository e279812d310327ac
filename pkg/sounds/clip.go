package sounds

import (
	"github.com/arthur-debert/carcue/pkg/errors"
)

// Clip is the concrete sound definition loaded from configuration: a
// target slot plus one or more audio clips with gain/pitch applied to
// each. Applying a Clip writes every clip into the slot.
type Clip struct {
	Slot  string
	Clips []string
	Gain  float64
	Pitch float64
}

// Apply implements Definition
func (c *Clip) Apply(set *Set) {
	for _, clip := range c.Clips {
		set.Add(c.Slot, Cue{
			Clip:  clip,
			Gain:  c.Gain,
			Pitch: c.Pitch,
		})
	}
}

// ParseDefinition parses one sound definition token from a config
// document. The token must be an object with a mandatory "slot" and
// "clips" list; "gain" and "pitch" default to 1.
func ParseDefinition(name string, token interface{}) (Definition, error) {
	obj, ok := token.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrSoundInvalid,
			"sound %q: definition must be an object, got %T", name, token).
			WithDetail("sound", name)
	}

	slot, ok := obj["slot"].(string)
	if !ok || slot == "" {
		return nil, errors.Newf(errors.ErrSoundInvalid,
			"sound %q: missing or invalid 'slot'", name).
			WithDetail("sound", name)
	}

	rawClips, ok := obj["clips"].([]interface{})
	if !ok || len(rawClips) == 0 {
		return nil, errors.Newf(errors.ErrSoundInvalid,
			"sound %q: 'clips' must be a non-empty list", name).
			WithDetail("sound", name)
	}

	clips := make([]string, 0, len(rawClips))
	for i, raw := range rawClips {
		clip, ok := raw.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrSoundInvalid,
				"sound %q: clips[%d] must be a string, got %T", name, i, raw).
				WithDetail("sound", name)
		}
		clips = append(clips, clip)
	}

	gain, err := floatField(obj, "gain", name)
	if err != nil {
		return nil, err
	}
	pitch, err := floatField(obj, "pitch", name)
	if err != nil {
		return nil, err
	}

	return &Clip{
		Slot:  slot,
		Clips: clips,
		Gain:  gain,
		Pitch: pitch,
	}, nil
}

// floatField reads an optional numeric field, defaulting to 1.
// JSON decodes numbers as float64, YAML may produce int.
func floatField(obj map[string]interface{}, key, sound string) (float64, error) {
	raw, ok := obj[key]
	if !ok {
		return 1.0, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.Newf(errors.ErrSoundInvalid,
			"sound %q: %q must be a number, got %T", sound, key, raw).
			WithDetail("sound", sound)
	}
}
