// Package sounds defines the sound side of the cue engine: the
// Definition contract that sound entries fulfil, the concrete Clip
// definition loaded from configuration, and the Set accumulator that
// collects selections for one car.
package sounds
