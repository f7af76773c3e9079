package insights

import "casa/internal/core"

// PhaseProgress explains how one phase contributed to a project's progress.
type PhaseProgress struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Weight float64 `json:"weight"`
	Credit float64 `json:"credit"`
	// Gated is true for phases after the first incomplete one.
	Gated bool `json:"gated"`
}

// RoadmapProgress returns the completion percentage of an ordered list of
// phases, in [0, 100].
//
// Phases are strictly sequential. Each phase weighs 100/len(phases).
// Completed phases earn their full weight until the first incomplete phase,
// which earns weight × (completed subtasks / subtasks), or nothing when it has
// no subtasks. Every phase after that earns nothing, whatever its own state.
func RoadmapProgress(phases []core.ProjectTask) float64 {
	var total float64
	for _, p := range PhaseBreakdown(phases) {
		total += p.Credit
	}
	return min(total, 100)
}

// PhaseBreakdown returns the per-phase credit used by RoadmapProgress.
func PhaseBreakdown(phases []core.ProjectTask) []PhaseProgress {
	if len(phases) == 0 {
		return nil
	}
	weight := 100 / float64(len(phases))
	out := make([]PhaseProgress, len(phases))
	gated := false
	for i, phase := range phases {
		out[i] = PhaseProgress{ID: phase.ID, Title: phase.Title, Weight: weight}
		if gated {
			out[i].Gated = true
			continue
		}
		if phase.IsCompleted {
			out[i].Credit = weight
			continue
		}
		out[i].Credit = weight * subtaskRatio(phase.Subtasks)
		gated = true
	}
	return out
}

func subtaskRatio(subtasks []core.ProjectTask) float64 {
	if len(subtasks) == 0 {
		return 0
	}
	done := 0
	for _, s := range subtasks {
		if s.IsCompleted {
			done++
		}
	}
	return float64(done) / float64(len(subtasks))
}
