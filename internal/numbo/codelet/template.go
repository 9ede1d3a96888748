package codelet

import (
	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// InstantiateFired is the exported form of instantiateFired, used by the
// driver loop to translate the back-reference reactivation it performs
// every decay interval (spec.md §4.5 step 2) into enqueueable Followups,
// the same way a codelet would.
func InstantiateFired(fired []slipnet.FiredTemplate) []Followup {
	return instantiateFired(fired)
}

// instantiateFired translates slipnet firing output into concrete
// Followups. This is the catalog's dispatch point (spec.md §9's "tagged
// variant... uniform run operation"): a FiredTemplate carries only data
// (Kind, Operation, Node), and this function is the one place that knows
// how to turn each Kind into an executable Codelet closure.
func instantiateFired(fired []slipnet.FiredTemplate) []Followup {
	var out []Followup
	for _, f := range fired {
		switch f.Template.Kind {
		case "propose_operation":
			out = append(out, Followup{
				Codelet: ProposeOperation(f.Template.Operation, f.Node),
				Urgency: pickUrgency(f.Template.Urgency),
			})
		}
	}
	return out
}

// instantiateSpecs translates Cytoplasm follow-up specs (from CreateBlock,
// DestroyBlock, AdjustTemp) into concrete Followups.
func instantiateSpecs(specs []cytoplasm.FollowupSpec) []Followup {
	var out []Followup
	for _, spec := range specs {
		switch spec.Kind {
		case "match_target":
			out = append(out, Followup{Codelet: MatchTarget(spec.Block), Urgency: spec.Urgency})
		case "find_syntactically_similar":
			out = append(out, Followup{Codelet: FindSyntacticallySimilar(spec.Node), Urgency: spec.Urgency})
		case "propose_destruction":
			out = append(out, Followup{Codelet: ProposeDestruction(), Urgency: spec.Urgency})
		case "slipnet_fired":
			out = append(out, instantiateFired(spec.Fired)...)
		}
	}
	return out
}

func pickUrgency(u int) int {
	if u <= 0 {
		return rack.Low
	}
	return u
}
