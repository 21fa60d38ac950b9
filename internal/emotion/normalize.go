package emotion

import "github.com/pscheid92/moodmatch/internal/domain"

// Normalize scales scores to sum to one. A map whose total is not positive
// collapses to neutral = 1.
func Normalize(s domain.Scores) domain.Scores {
	total := s.Sum()
	if total <= 0 {
		var out domain.Scores
		out[domain.Neutral] = 1
		return out
	}
	var out domain.Scores
	for i, v := range s {
		out[i] = v / total
	}
	return out
}
