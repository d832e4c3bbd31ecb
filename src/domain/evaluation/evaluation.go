package evaluation

import "gitlab.com/devpro_studio/Flargd/src/model/db"

// Evaluate reports whether a subject in the given bucket falls inside the flag's rollout.
// flag must not be nil; absence is handled by the caller.
func Evaluate(flag *db.Flag, bucket int) bool {
	return bucket < ClampPercent(flag.Percentage)
}

func ClampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
