package shared

// DefaultSkillFactor is the per-level speed-up most activities use
const DefaultSkillFactor = 0.2

// SkillWorkTime converts raw time into effective work time.
//
// An unskilled worker (skill 0) works at half rate; every skill level adds
// perLevel of the raw time with no upper bound.
func SkillWorkTime(raw float64, skill int, perLevel float64) float64 {
	if raw <= 0 {
		return 0
	}
	if skill <= 0 {
		return raw / 2
	}
	return raw * (1 + perLevel*float64(skill))
}
